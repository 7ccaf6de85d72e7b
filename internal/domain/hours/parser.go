package hours

import (
	"strconv"
	"strings"

	"github.com/ellavondegurechaff/asae/internal/domain/platform"
)

// DefaultReporterNames are the display names of the time clock bot whose reports are ingested.
var DefaultReporterNames = []string{"Nyox Bate-Ponto", "Nyox Store", "NYOX", "Bate-Ponto"}

// Report is a parsed clock-out notification.
type Report struct {
	Subject Subject
	Hours   float64
}

// Parser extracts reports from messages authored by a known reporting bot.
type Parser struct {
	reporters []string
}

func NewParser(reporterNames ...string) Parser {
	if len(reporterNames) == 0 {
		reporterNames = DefaultReporterNames
	}
	return Parser{reporters: reporterNames}
}

// FromReporter reports whether the message author is one of the reporting bots.
func (p Parser) FromReporter(msg platform.Message) bool {
	if !msg.Author.Bot {
		return false
	}
	for _, name := range p.reporters {
		if strings.Contains(msg.Author.DisplayName, name) {
			return true
		}
	}
	return false
}

// Parse returns the first embed carrying both a subject and a positive duration.
func (p Parser) Parse(msg platform.Message) (Report, bool) {
	if !p.FromReporter(msg) {
		return Report{}, false
	}
	return ParseEmbeds(msg.Embeds)
}

// ParseEmbeds applies the field rules without the author filter.
func ParseEmbeds(embeds []platform.Embed) (Report, bool) {
	for _, embed := range embeds {
		var (
			subject Subject
			found   bool
			hours   float64
		)
		for _, field := range embed.Fields {
			name := strings.ToLower(field.Name)
			value := strings.TrimSpace(field.Value)

			switch {
			case strings.Contains(name, "usuário") || strings.Contains(name, "user"):
				subject = NormalizeSubject(value)
				found = subject.Key() != ""
			case strings.Contains(name, "tempo") || strings.Contains(name, "time"):
				hours = ParseDuration(value)
			}
		}
		if found && hours > 0 {
			return Report{Subject: subject, Hours: hours}, true
		}
	}
	return Report{}, false
}

// ParseDuration reads "<h>h<m>m" with either part optional. Malformed parts count as zero.
func ParseDuration(s string) float64 {
	text := strings.ToLower(s)
	var h, m int

	if strings.Contains(text, "h") {
		parts := strings.Split(text, "h")
		h = atoiOrZero(parts[0])
		text = parts[1]
	}
	if strings.Contains(text, "m") {
		m = atoiOrZero(strings.Split(text, "m")[0])
	}
	return float64(h) + float64(m)/60.0
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
