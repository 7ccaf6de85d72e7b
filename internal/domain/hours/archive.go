package hours

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
	"github.com/sahilm/fuzzy"
)

const (
	archiveChannelLimit = 10
	archiveMessageLimit = 50
)

var archiveIgnoredWords = []string{"arquivado", "archive", "geral", "general", "chat", "categoria", "category"}

// NameResolver renders a subject the way members see it in the guild.
type NameResolver interface {
	FriendlyName(ctx context.Context, guildID snowflake.ID, subject Subject) string
}

type ArchiveMatch struct {
	Subject Subject
	Name    string
	Hours   float64
}

// ArchiveReport describes the users found in the archive category and the hours they hold.
type ArchiveReport struct {
	Channels   []platform.Channel
	Identified []string
	Matches    []ArchiveMatch
	Total      float64

	// Set by PurgeArchive.
	Purged         bool
	RecordsRemoved int
}

// ReviewArchive identifies archived users and the hours a purge would remove, without changing anything.
func (s *Service) ReviewArchive(ctx context.Context, t tenant.Tenant, names NameResolver) (ArchiveReport, error) {
	report, subjects, err := s.collectArchived(ctx, t)
	if err != nil || (len(report.Identified) == 0 && len(subjects) == 0) {
		return report, err
	}

	ledger := s.Snapshot(ctx, t)
	report.Matches = matchArchived(ctx, t, ledger, names, report.Identified, subjects)
	for _, m := range report.Matches {
		report.Total += m.Hours
	}
	return report, nil
}

// PurgeArchive resets every archived user that still holds hours. confirmation must equal ResetConfirmation.
func (s *Service) PurgeArchive(ctx context.Context, t tenant.Tenant, names NameResolver, confirmation, purgedBy string) (ArchiveReport, error) {
	if confirmation != ResetConfirmation {
		return ArchiveReport{}, ErrConfirmationRequired
	}

	report, subjects, err := s.collectArchived(ctx, t)
	if err != nil || (len(report.Identified) == 0 && len(subjects) == 0) {
		return report, err
	}

	err = s.withLedger(ctx, t, func(l *Ledger) (bool, error) {
		report.Matches = matchArchived(ctx, t, l, names, report.Identified, subjects)
		if len(report.Matches) == 0 {
			return false, nil
		}

		targets := make([]Subject, 0, len(report.Matches))
		for _, m := range report.Matches {
			targets = append(targets, m.Subject)
		}
		for _, r := range resetSubjects(l, targets) {
			report.Total += r.Hours
			report.RecordsRemoved += r.Records
		}
		report.Purged = true
		return true, nil
	})
	if err != nil {
		return report, err
	}

	slog.Info("Archived users purged",
		slog.String("type", "cmd"),
		slog.String("tenant", t.ID.String()),
		slog.Int("users", len(report.Matches)),
		slog.Int("records", report.RecordsRemoved),
		slog.Float64("hours", report.Total),
		slog.String("by", purgedBy),
	)
	return report, nil
}

// collectArchived gathers user names from the archive channel names and the subjects reported inside the
// first channels of the category.
func (s *Service) collectArchived(ctx context.Context, t tenant.Tenant) (ArchiveReport, []Subject, error) {
	channels, err := s.platform.TextChannels(ctx, t.ID, t.ArchiveCategoryID)
	if err != nil {
		return ArchiveReport{}, nil, fmt.Errorf("archive category: %w", err)
	}
	report := ArchiveReport{Channels: channels}

	identified := make(map[string]struct{})
	for _, ch := range channels {
		if name, ok := ArchivedUserName(ch.Name); ok {
			identified[name] = struct{}{}
		}
	}

	var subjects []Subject
	for i, ch := range channels {
		if i == archiveChannelLimit {
			break
		}
		messages, err := s.platform.RecentMessages(ctx, ch.ID, archiveMessageLimit)
		if err != nil {
			slog.Warn("Failed to read archived channel",
				slog.String("type", "sys"),
				slog.String("channel", ch.Name),
				slog.Any("error", err),
			)
			continue
		}
		for _, msg := range messages {
			rep, ok := s.parser.Parse(msg)
			if !ok {
				continue
			}
			if rep.Subject.Kind == DisplayName {
				identified[rep.Subject.Name] = struct{}{}
			} else {
				subjects = append(subjects, rep.Subject)
			}
		}
	}

	for name := range identified {
		report.Identified = append(report.Identified, name)
	}
	sort.Strings(report.Identified)
	return report, subjects, nil
}

// ArchivedUserName derives a user name from an archived channel name such as "joao-silva-arquivada".
func ArchivedUserName(channelName string) (string, bool) {
	name := strings.ToLower(channelName)
	for _, word := range archiveIgnoredWords {
		if strings.Contains(name, word) {
			return "", false
		}
	}
	name = strings.NewReplacer("-", " ", "_", " ", "arquivada", "", "archived", "").Replace(name)
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= 2 {
		return "", false
	}
	return titleWords(name), true
}

func titleWords(s string) string {
	runes := []rune(s)
	start := true
	for i, r := range runes {
		if unicode.IsLetter(r) {
			if start {
				runes[i] = unicode.ToUpper(r)
			}
			start = false
			continue
		}
		start = true
	}
	return string(runes)
}

type ledgerSubject struct {
	subject  Subject
	friendly string
	lower    string
	hours    float64
}

// matchArchived pairs archived users with ledger subjects. Reported mentions match by id; names match
// when one contains the other, preferring the closest fuzzy candidate.
func matchArchived(ctx context.Context, t tenant.Tenant, l *Ledger, names NameResolver, identified []string, reported []Subject) []ArchiveMatch {
	var candidates []ledgerSubject
	index := make(map[string]int)
	for _, r := range l.Records {
		key := r.Subject.Key()
		if i, ok := index[key]; ok {
			candidates[i].hours += r.Hours
			continue
		}
		index[key] = len(candidates)
		candidates = append(candidates, ledgerSubject{subject: canonical(r.Subject), hours: r.Hours})
	}
	lowered := make([]string, len(candidates))
	for i := range candidates {
		candidates[i].friendly = names.FriendlyName(ctx, t.ID, candidates[i].subject)
		candidates[i].lower = strings.ToLower(candidates[i].friendly)
		lowered[i] = candidates[i].lower
	}

	picked := make(map[int]struct{})
	for _, subject := range reported {
		if i, ok := index[subject.Key()]; ok {
			picked[i] = struct{}{}
		}
	}
	for _, name := range identified {
		if i, ok := bestNameMatch(strings.ToLower(name), lowered); ok {
			picked[i] = struct{}{}
		}
	}

	var matches []ArchiveMatch
	for i := range picked {
		c := candidates[i]
		if c.hours <= 0 {
			continue
		}
		matches = append(matches, ArchiveMatch{Subject: c.subject, Name: c.friendly, Hours: c.hours})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Hours != matches[j].Hours {
			return matches[i].Hours > matches[j].Hours
		}
		return matches[i].Subject.Key() < matches[j].Subject.Key()
	})
	return matches
}

func bestNameMatch(pattern string, names []string) (int, bool) {
	for _, m := range fuzzy.Find(pattern, names) {
		if strings.Contains(m.Str, pattern) {
			return m.Index, true
		}
	}
	for i, name := range names {
		if name != "" && strings.Contains(pattern, name) {
			return i, true
		}
	}
	return 0, false
}
