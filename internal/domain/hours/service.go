package hours

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/ellavondegurechaff/asae/internal/domain/clock"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

// ResetConfirmation must be typed verbatim before hours are wiped.
const ResetConfirmation = "CONFIRMAR"

// Service owns every load/mutate/save sequence on the tenant ledgers.
type Service struct {
	repo     Repository
	platform platform.Platform
	parser   Parser
	clock    clock.Clock
	loc      *time.Location
	locks    tenantLocks
}

func NewService(repo Repository, p platform.Platform, parser Parser, c clock.Clock, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo:     repo,
		platform: p,
		parser:   parser,
		clock:    c,
		loc:      loc,
	}
}

// Today is the current calendar day in the deployment zone.
func (s *Service) Today() Date {
	return DateOf(s.clock.Now().In(s.loc))
}

func (s *Service) Now() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *Service) stamp() string {
	return s.Now().Format(tenant.TimestampLayout)
}

// Snapshot returns a copy of the tenant ledger for read-only use.
func (s *Service) Snapshot(ctx context.Context, t tenant.Tenant) *Ledger {
	lock := s.locks.get(t.ID)
	lock.Lock()
	defer lock.Unlock()

	return s.repo.Load(ctx, t).Clone()
}

// withLedger runs fn on the loaded ledger under the tenant lock and saves when fn reports a change.
func (s *Service) withLedger(ctx context.Context, t tenant.Tenant, fn func(l *Ledger) (bool, error)) error {
	lock := s.locks.get(t.ID)
	lock.Lock()
	defer lock.Unlock()

	ledger := s.repo.Load(ctx, t)
	changed, err := fn(ledger)
	if err != nil || !changed {
		return err
	}
	if err := s.repo.Save(ctx, t, ledger); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return nil
}

type AddResult struct {
	Subject Subject
	Date    string
	Hours   float64
	Total   float64
}

// AddHours appends a manual record. An empty date means today.
func (s *Service) AddHours(ctx context.Context, t tenant.Tenant, subject Subject, hours float64, date, addedBy string) (AddResult, error) {
	if hours <= 0 {
		return AddResult{}, ErrNonPositiveHours
	}
	day, err := s.resolveDate(date)
	if err != nil {
		return AddResult{}, err
	}

	res := AddResult{Subject: subject, Date: day.String(), Hours: hours}
	err = s.withLedger(ctx, t, func(l *Ledger) (bool, error) {
		l.AppendIfNew(WorkRecord{
			Date:    res.Date,
			Subject: subject,
			Hours:   hours,
			Manual:  true,
			AddedBy: addedBy,
			AddedAt: s.stamp(),
		})
		res.Total = SubjectTotal(l, subject, nil)
		return true, nil
	})
	if err != nil {
		return AddResult{}, err
	}

	slog.Info("Hours added",
		slog.String("type", "cmd"),
		slog.String("tenant", t.ID.String()),
		slog.String("subject", subject.Key()),
		slog.Float64("hours", hours),
		slog.String("by", addedBy),
	)
	return res, nil
}

type RemoveResult struct {
	Subject   Subject
	Requested float64
	Removed   float64
	Before    float64
	After     float64
}

// Shortfall is the part of the request not covered by existing records.
func (r RemoveResult) Shortfall() float64 {
	return r.Requested - r.Removed
}

// RemoveHours takes hours off the subject's most recent records first. A record holding more than
// what is still owed is decremented in place; any other matching record is dropped. An empty date
// considers every day.
func (s *Service) RemoveHours(ctx context.Context, t tenant.Tenant, subject Subject, hours float64, date, removedBy string) (RemoveResult, error) {
	if hours <= 0 {
		return RemoveResult{}, ErrNonPositiveHours
	}
	if date != "" {
		if _, err := ParseDate(date); err != nil {
			return RemoveResult{}, ErrInvalidDate
		}
	}

	res := RemoveResult{Subject: subject, Requested: hours}
	err := s.withLedger(ctx, t, func(l *Ledger) (bool, error) {
		res.Before = SubjectTotal(l, subject, nil)
		if res.Before == 0 {
			return false, ErrNoHours
		}

		var matches []int
		for i, r := range l.Records {
			if r.Subject.Same(subject) && (date == "" || r.Date == date) {
				matches = append(matches, i)
			}
		}
		sort.SliceStable(matches, func(a, b int) bool {
			return l.Records[matches[a]].Date > l.Records[matches[b]].Date
		})

		remaining := hours
		drop := make(map[int]bool)
		for _, i := range matches {
			if remaining <= 0 {
				break
			}
			r := &l.Records[i]
			if r.Hours > remaining {
				r.Hours -= remaining
				r.ModifiedAt = s.stamp()
				r.ModifiedBy = removedBy
				r.HoursRemoved = remaining
				remaining = 0
				break
			}
			remaining -= r.Hours
			drop[i] = true
		}

		if len(drop) > 0 {
			kept := l.Records[:0]
			for i, r := range l.Records {
				if !drop[i] {
					kept = append(kept, r)
				}
			}
			l.Records = kept
		}

		res.Removed = hours - remaining
		res.After = SubjectTotal(l, subject, nil)
		return res.Removed > 0, nil
	})
	if err != nil {
		return RemoveResult{}, err
	}

	slog.Info("Hours removed",
		slog.String("type", "cmd"),
		slog.String("tenant", t.ID.String()),
		slog.String("subject", subject.Key()),
		slog.Float64("requested", hours),
		slog.Float64("removed", res.Removed),
		slog.String("by", removedBy),
	)
	return res, nil
}

type ResetResult struct {
	Subject Subject
	Hours   float64
	Records int
}

// ResetHours deletes every record of subject. confirmation must equal ResetConfirmation.
func (s *Service) ResetHours(ctx context.Context, t tenant.Tenant, subject Subject, confirmation, resetBy string) (ResetResult, error) {
	if confirmation != ResetConfirmation {
		return ResetResult{}, ErrConfirmationRequired
	}

	var res ResetResult
	err := s.withLedger(ctx, t, func(l *Ledger) (bool, error) {
		results := resetSubjects(l, []Subject{subject})
		if len(results) == 0 {
			return false, ErrNoHours
		}
		res = results[0]
		return true, nil
	})
	if err != nil {
		return ResetResult{}, err
	}

	slog.Info("Hours reset",
		slog.String("type", "cmd"),
		slog.String("tenant", t.ID.String()),
		slog.String("subject", subject.Key()),
		slog.Float64("hours", res.Hours),
		slog.Int("records", res.Records),
		slog.String("by", resetBy),
	)
	return res, nil
}

// resetSubjects drops every record of the given subjects that still hold hours and reports what was removed.
func resetSubjects(l *Ledger, subjects []Subject) []ResetResult {
	var results []ResetResult
	for _, subject := range subjects {
		total := SubjectTotal(l, subject, nil)
		if total <= 0 {
			continue
		}
		before := len(l.Records)
		l.Records = slices.DeleteFunc(l.Records, func(r WorkRecord) bool {
			return r.Subject.Same(subject)
		})
		results = append(results, ResetResult{
			Subject: subject,
			Hours:   total,
			Records: before - len(l.Records),
		})
	}
	return results
}

func (s *Service) resolveDate(date string) (Date, error) {
	if date == "" {
		return s.Today(), nil
	}
	day, err := ParseDate(date)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return day, nil
}
