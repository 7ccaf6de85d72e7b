package hours

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/snowflake/v2"
)

// minIDDigits is the shortest run of digits treated as a platform user id rather than a name.
const minIDDigits = 11

type SubjectKind int

const (
	DisplayName SubjectKind = iota
	MentionToken
	NumericID
)

func (k SubjectKind) String() string {
	switch k {
	case MentionToken:
		return "mention"
	case NumericID:
		return "numeric_id"
	default:
		return "display_name"
	}
}

// Subject identifies whose hours a record credits. Mention tokens and bare ids of the
// same user share one Key; display names only match themselves.
type Subject struct {
	Kind SubjectKind
	Name string
	ID   snowflake.ID

	raw string
}

func Mention(id snowflake.ID) Subject {
	return Subject{Kind: MentionToken, ID: id}
}

func Named(name string) Subject {
	return Subject{Kind: DisplayName, Name: name}
}

// ParseSubject classifies a stored or user-supplied identifier, keeping the exact text for persistence.
func ParseSubject(raw string) Subject {
	s := classify(raw)
	s.raw = raw
	return s
}

// NormalizeSubject classifies text coming from a report and drops the original decoration,
// so the persisted form is canonical.
func NormalizeSubject(raw string) Subject {
	s := classify(raw)
	if s.Kind == NumericID {
		s.Kind = MentionToken
	}
	return s
}

// ManualSubject classifies operator input. Ids become mentions; any other text is kept exactly as typed,
// since plain names only match by exact text.
func ManualSubject(raw string) Subject {
	s := classify(raw)
	if s.Kind == DisplayName {
		return Named(raw)
	}
	s.Kind = MentionToken
	return s
}

func classify(raw string) Subject {
	trimmed := strings.TrimSpace(raw)
	stripped := strings.TrimSpace(strings.NewReplacer("<", "", ">", "", "@", "").Replace(trimmed))

	if isUserID(stripped) {
		id, err := snowflake.Parse(stripped)
		if err == nil {
			if stripped == trimmed {
				return Subject{Kind: NumericID, ID: id}
			}
			return Subject{Kind: MentionToken, ID: id}
		}
	}
	return Subject{Kind: DisplayName, Name: stripped}
}

func isUserID(s string) bool {
	if len(s) < minIDDigits {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Key is the ranking bucket of the subject.
func (s Subject) Key() string {
	if s.Kind == DisplayName {
		return s.Name
	}
	return fmt.Sprintf("<@%d>", s.ID)
}

// UserID reports the platform id behind the subject, if it has one.
func (s Subject) UserID() (snowflake.ID, bool) {
	return s.ID, s.Kind != DisplayName
}

func (s Subject) Same(other Subject) bool {
	return s.Key() == other.Key()
}

func (s Subject) IsZero() bool {
	return s.Kind == DisplayName && s.Name == "" && s.raw == ""
}

// String returns the persisted text: the original form when parsed, otherwise the canonical one.
func (s Subject) String() string {
	if s.raw != "" {
		return s.raw
	}
	if s.Kind == NumericID {
		return strconv.FormatUint(uint64(s.ID), 10)
	}
	return s.Key()
}

// MarshalJSON keeps mention brackets literal instead of \u003c escapes.
func (s Subject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s.String()); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (s *Subject) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("subject: %w", err)
	}
	*s = ParseSubject(raw)
	return nil
}
