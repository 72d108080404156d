// Package recurrence derives occurrence dates for scheduled tasks. It is a
// pure function library: projections are recomputed on every query and never
// persisted.
package recurrence

import (
	"time"

	"github.com/mamadbah2/ovinet/internal/domain/models"
)

// maxIterations bounds every enumeration so a misconfigured rule can never
// loop past roughly one year of daily occurrences.
const maxIterations = 366

// Next computes the occurrence that follows current under the given rule.
// The second return is false when the rule yields no further date.
func Next(current string, recur models.Recurrence, cfg models.RecurrenceConfig) (string, bool) {
	base, err := ParseDate(current)
	if err != nil {
		return "", false
	}

	switch recur {
	case models.RecurDaily:
		step := cfg.IntervalDays
		if step < 1 {
			step = 1
		}
		return FormatDate(base.AddDate(0, 0, step)), true

	case models.RecurWeekly:
		if len(cfg.Weekdays) == 0 {
			return FormatDate(base.AddDate(0, 0, 7)), true
		}
		for d := 1; d <= 7; d++ {
			candidate := base.AddDate(0, 0, d)
			if containsInt(cfg.Weekdays, int(candidate.Weekday())) {
				return FormatDate(candidate), true
			}
		}
		return "", false

	case models.RecurMonthly:
		target := cfg.DayOfMonth
		if target < 1 {
			target = base.Day()
		}
		for i := 1; i <= 12; i++ {
			candidate := time.Date(base.Year(), base.Month()+time.Month(i), target, 12, 0, 0, 0, time.Local)
			if candidate.After(base) {
				return FormatDate(candidate), true
			}
		}
		return "", false

	case models.RecurYearly:
		if len(cfg.MonthsOfYear) == 0 {
			return "", false
		}
		// Yearly occurrences land on the 1st of each configured month; the
		// base day-of-month is intentionally not preserved.
		for i := 1; i <= 24; i++ {
			candidate := time.Date(base.Year(), base.Month()+time.Month(i), 1, 12, 0, 0, 0, time.Local)
			if containsInt(cfg.MonthsOfYear, int(candidate.Month())-1) && candidate.After(base) {
				return FormatDate(candidate), true
			}
		}
		return "", false
	}

	return "", false
}

// ValidateDate checks that a manually chosen planned date is consistent with
// the recurrence rule. On mismatch it returns false and a reason code the
// presentation layer can translate.
func ValidateDate(recur models.Recurrence, cfg models.RecurrenceConfig, date string) (bool, string) {
	t, err := ParseDate(date)
	if err != nil {
		return false, "invalid_date"
	}

	switch recur {
	case models.RecurWeekly:
		if len(cfg.Weekdays) > 0 && !containsInt(cfg.Weekdays, int(t.Weekday())) {
			return false, "weekday_not_selected"
		}
	case models.RecurMonthly:
		if cfg.DayOfMonth > 0 && t.Day() != cfg.DayOfMonth {
			return false, "day_of_month_mismatch"
		}
	case models.RecurYearly:
		if len(cfg.MonthsOfYear) > 0 && !containsInt(cfg.MonthsOfYear, int(t.Month())-1) {
			return false, "month_not_selected"
		}
	}

	return true, ""
}

// AutoAdjust replaces an inconsistent candidate date with the next date the
// rule would produce starting from the candidate itself.
func AutoAdjust(date string, recur models.Recurrence, cfg models.RecurrenceConfig) (string, bool) {
	return Next(date, recur, cfg)
}

// Occurrence is one projected calendar entry for a task. Projected marks
// derived follow-ups, as opposed to the task's own planned date.
type Occurrence struct {
	Manejo    models.Manejo
	Date      string
	Projected bool
}

// seriesEnd resolves the optional duration cap to a last admissible date.
func seriesEnd(base string, cfg models.RecurrenceConfig) (string, bool) {
	if cfg.DurationDays <= 0 {
		return "", false
	}
	ref := cfg.ReferenceStartDate
	if ref == "" {
		ref = base
	}
	end, err := AddDays(ref, cfg.DurationDays)
	if err != nil {
		return "", false
	}
	return end, true
}

// Project enumerates every occurrence of the task intersecting the inclusive
// window [windowStart, windowEnd], in ascending date order. The task's own
// planned date is included when it falls inside the window; follow-ups are
// derived from the recurrence rule until the rule is exhausted, the duration
// cap is passed, the window ends, or the iteration ceiling is reached.
func Project(m models.Manejo, windowStart, windowEnd string) []Occurrence {
	base, err := ParseDate(m.PlannedDate)
	if err != nil {
		return nil
	}
	start, err := ParseDate(windowStart)
	if err != nil {
		return nil
	}
	end, err := ParseDate(windowEnd)
	if err != nil {
		return nil
	}

	var capDate time.Time
	capped := false
	if endStr, ok := seriesEnd(FormatDate(base), m.RecurrenceConfig); ok {
		if t, err := ParseDate(endStr); err == nil {
			capDate, capped = t, true
		}
	}

	inWindow := func(t time.Time) bool {
		return !t.Before(start) && !t.After(end)
	}
	pastCap := func(t time.Time) bool {
		return capped && t.After(capDate)
	}

	var out []Occurrence
	if inWindow(base) && !pastCap(base) {
		out = append(out, Occurrence{Manejo: m, Date: FormatDate(base)})
	}

	if m.Recurrence == models.RecurNone {
		return out
	}

	current := FormatDate(base)
	for i := 0; i < maxIterations; i++ {
		next, ok := Next(current, m.Recurrence, m.RecurrenceConfig)
		if !ok {
			break
		}
		t, err := ParseDate(next)
		if err != nil {
			break
		}
		if pastCap(t) || t.After(end) {
			break
		}
		if !t.Before(start) {
			out = append(out, Occurrence{Manejo: m, Date: next, Projected: true})
		}
		current = next
	}

	return out
}

// AdvanceAfterCompletion computes the planned date seeding the next pending
// instance once a recurring task is marked done. ok is false when the series
// ends, either because the rule yields nothing or the duration cap would be
// exceeded.
func AdvanceAfterCompletion(m models.Manejo) (nextDate string, nextCount int, ok bool) {
	if m.Recurrence == models.RecurNone {
		return "", 0, false
	}

	next, ok := Next(m.PlannedDate, m.Recurrence, m.RecurrenceConfig)
	if !ok {
		return "", 0, false
	}

	if endStr, capped := seriesEnd(m.PlannedDate, m.RecurrenceConfig); capped && next > endStr {
		return "", 0, false
	}

	return next, m.RecurrenceConfig.OccurrenceCount + 1, true
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
