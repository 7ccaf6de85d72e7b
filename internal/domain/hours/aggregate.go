package hours

import (
	"slices"
	"sort"

	"github.com/disgoorg/snowflake/v2"
)

type RankingEntry struct {
	Subject Subject
	Hours   float64
}

// Rank sums hours per subject over the window and orders subjects by total, highest first.
// Subjects with a non-positive total are left out; ties keep first-appearance order.
func Rank(l *Ledger, w Window) []RankingEntry {
	totals := make(map[string]int)
	var ranking []RankingEntry

	for _, r := range l.Records {
		day, err := r.Day()
		if err != nil || !w.Contains(day) {
			continue
		}
		key := r.Subject.Key()
		i, ok := totals[key]
		if !ok {
			i = len(ranking)
			totals[key] = i
			ranking = append(ranking, RankingEntry{Subject: canonical(r.Subject)})
		}
		ranking[i].Hours += r.Hours
	}

	ranking = slices.DeleteFunc(ranking, func(e RankingEntry) bool { return e.Hours <= 0 })
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Hours > ranking[j].Hours
	})
	return ranking
}

// RankLastNDays ranks the n days ending on today.
func RankLastNDays(l *Ledger, today Date, n int) []RankingEntry {
	return Rank(l, LastNDays(today, n))
}

// canonical drops the stored spelling so mentions and ids of one user render alike.
func canonical(s Subject) Subject {
	if s.Kind == DisplayName {
		return Named(s.Name)
	}
	return Mention(s.ID)
}

func TotalHours(ranking []RankingEntry) float64 {
	var total float64
	for _, e := range ranking {
		total += e.Hours
	}
	return total
}

// SubjectTotal sums all hours of subject, optionally limited to a window.
func SubjectTotal(l *Ledger, subject Subject, w *Window) float64 {
	var total float64
	for _, r := range l.Records {
		if !r.Subject.Same(subject) {
			continue
		}
		if w != nil {
			day, err := r.Day()
			if err != nil || !w.Contains(day) {
				continue
			}
		}
		total += r.Hours
	}
	return total
}

type DayTotal struct {
	Date  string
	Hours float64
}

// History is one user's activity over a window.
type History struct {
	Total   float64
	Records int
	Days    []DayTotal
}

// UserHistory collects the records of a member, matched by id or by their current display name,
// grouped per day with the newest day first.
func UserHistory(l *Ledger, userID snowflake.ID, displayName string, w Window) History {
	byID := Mention(userID)
	byDate := make(map[string]float64)
	var h History

	for _, r := range l.Records {
		if !r.Subject.Same(byID) && !(r.Subject.Kind == DisplayName && r.Subject.Name == displayName) {
			continue
		}
		day, err := r.Day()
		if err != nil || !w.Contains(day) {
			continue
		}
		h.Total += r.Hours
		h.Records++
		byDate[r.Date] += r.Hours
	}

	for date, hours := range byDate {
		h.Days = append(h.Days, DayTotal{Date: date, Hours: hours})
	}
	sort.Slice(h.Days, func(i, j int) bool { return h.Days[i].Date > h.Days[j].Date })
	return h
}
