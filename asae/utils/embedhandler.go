package utils

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/asae/asae/config"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/leaderboard"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

// ResponseHandler provides standardized response methods for commands
type ResponseHandler struct{}

var EH = &ResponseHandler{}

// ErrorType represents different categories of errors for consistent handling
type ErrorType int

const (
	// UserError - invalid arguments or a missing confirmation
	UserError ErrorType = iota
	// SystemError - storage and platform failures
	SystemError
	// NotFoundError - the user or channel has nothing to act on
	NotFoundError
	// PermissionError - the invoker may not run the command here
	PermissionError
)

var userMessages = []struct {
	err     error
	kind    ErrorType
	message string
}{
	{tenant.ErrUnknownGuild, PermissionError, "Este comando não está disponível neste servidor."},
	{tenant.ErrNotAllowed, PermissionError, "Sem permissão."},
	{tenant.ErrWrongCategory, PermissionError, "Este comando só pode ser usado na categoria específica de pontos."},
	{tenant.ErrMissingRole, PermissionError, "Sem permissão. Você precisa ter o cargo de consulta para usar este comando."},
	{hours.ErrNonPositiveHours, UserError, "As horas devem ser maiores que zero."},
	{hours.ErrInvalidDate, UserError, "Formato de data inválido. Use YYYY-MM-DD."},
	{hours.ErrConfirmationRequired, UserError, "Confirmação necessária. Digite 'CONFIRMAR' para continuar."},
	{hours.ErrNoHours, NotFoundError, "Este usuário não possui horas registradas."},
	{hours.ErrSaveFailed, SystemError, "Erro ao salvar as alterações."},
	{platform.ErrMissingAccess, PermissionError, "O bot não tem acesso a este canal."},
	{platform.ErrChannelNotFound, NotFoundError, "Canal não encontrado."},
	{platform.ErrCategoryNotFound, NotFoundError, "Categoria não encontrada."},
	{leaderboard.ErrChannelNotConfigured, NotFoundError, "Canal de leaderboard não configurado."},
}

// Classify maps an error onto its category and the message shown to the invoker.
func Classify(err error) (ErrorType, string) {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.kind, m.message
		}
	}
	return SystemError, fmt.Sprintf("Ocorreu um erro: %s", err)
}

// getErrorColor returns the appropriate color for error types
func getErrorColor(errorType ErrorType) int {
	switch errorType {
	case UserError, NotFoundError:
		return config.WarningColor
	default:
		return config.ErrorColor
	}
}

func Ptr[T any](v T) *T {
	return &v
}

// CreateEphemeralError answers with a plain "❌" line only the invoker sees.
func (h *ResponseHandler) CreateEphemeralError(e *handler.CommandEvent, message string) error {
	return e.CreateMessage(discord.MessageCreate{
		Content: "❌ " + message,
		Flags:   discord.MessageFlagEphemeral,
	})
}

// CreateEphemeralWarning answers with a plain "⚠️" line only the invoker sees.
func (h *ResponseHandler) CreateEphemeralWarning(e *handler.CommandEvent, message string) error {
	return e.CreateMessage(discord.MessageCreate{
		Content: "⚠️ " + message,
		Flags:   discord.MessageFlagEphemeral,
	})
}

func (h *ResponseHandler) CreateEmbed(e *handler.CommandEvent, embed discord.Embed) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{embed},
	})
}

func (h *ResponseHandler) CreateEphemeralEmbed(e *handler.CommandEvent, embed discord.Embed) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{embed},
		Flags:  discord.MessageFlagEphemeral,
	})
}

// HandleError classifies err and answers the invoker ephemerally. System errors are logged.
func (h *ResponseHandler) HandleError(e *handler.CommandEvent, err error) error {
	kind, message := Classify(err)
	if kind == SystemError {
		slog.Error("Command error",
			slog.String("type", "error"),
			slog.String("user_id", e.User().ID.String()),
			slog.Any("error", err))
	}
	return h.CreateEphemeralError(e, message)
}

// UpdateEmbed replaces the deferred response with embed.
func (h *ResponseHandler) UpdateEmbed(e *handler.CommandEvent, embed discord.Embed) error {
	_, err := e.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{embed},
	})
	return err
}

// UpdateText replaces the deferred response with a plain line.
func (h *ResponseHandler) UpdateText(e *handler.CommandEvent, content string) error {
	_, err := e.UpdateInteractionResponse(discord.MessageUpdate{
		Content: &content,
		Embeds:  &[]discord.Embed{},
	})
	return err
}

// UpdateError replaces the deferred response with an error embed.
func (h *ResponseHandler) UpdateError(e *handler.CommandEvent, title string, err error) error {
	kind, message := Classify(err)
	if kind == SystemError {
		slog.Error("Command error",
			slog.String("type", "error"),
			slog.String("user_id", e.User().ID.String()),
			slog.Any("error", err))
	}
	return h.UpdateEmbed(e, discord.Embed{
		Title:       "❌ " + title,
		Description: message,
		Color:       getErrorColor(kind),
	})
}
