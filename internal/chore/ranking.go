package chore

import (
	"cmp"
	"slices"
	"time"
)

// NeverCompletedScore is the urgency of a chore that was never completed. It
// exceeds any score a completed chore can reach in practice, so never-done
// chores rank first.
const NeverCompletedScore = 1000

// Tier classifies how overdue a chore is. A presentation layer maps tiers to colors.
type Tier int

const (
	TierNormal Tier = iota
	TierWarning
	TierElevated
	TierCritical
)

// Tiers lists every tier from least to most severe.
var Tiers = []Tier{TierNormal, TierWarning, TierElevated, TierCritical}

func (t Tier) String() string {
	switch t {
	case TierNormal:
		return "normal"
	case TierWarning:
		return "warning"
	case TierElevated:
		return "elevated"
	case TierCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// DaysSince returns the number of calendar-day boundaries between the chore's
// last completion and now, evaluated in now's location. ok is false when the
// chore was never completed.
func DaysSince(c Chore, now time.Time) (days int, ok bool) {
	last, ok := c.LastCompleted.Get()
	if !ok {
		return 0, false
	}
	return calendarDaysBetween(last.In(now.Location()), now), true
}

// calendarDaysBetween counts civil dates, not 24h spans, so 23:59 to 00:01 is
// one day and DST shifts never change the result.
func calendarDaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

// UrgencyScore returns how overdue the chore is in days (positive is overdue,
// zero or negative is on schedule) or NeverCompletedScore.
func UrgencyScore(c Chore, now time.Time) int {
	days, ok := DaysSince(c, now)
	if !ok {
		return NeverCompletedScore
	}
	return days - c.IntervalDays
}

// Rank returns a new slice ordered by UrgencyScore, most urgent first. Chores
// with equal scores keep their input order.
func Rank(chores []Chore, now time.Time) []Chore {
	type scored struct {
		chore Chore
		score int
	}
	items := make([]scored, len(chores))
	for i, c := range chores {
		items[i] = scored{chore: c, score: UrgencyScore(c, now)}
	}
	slices.SortStableFunc(items, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	ranked := make([]Chore, len(items))
	for i, it := range items {
		ranked[i] = it.chore
	}
	return ranked
}

// SeverityTier maps an overdue day count to a Tier.
func SeverityTier(overdueDays int) Tier {
	switch {
	case overdueDays <= 0:
		return TierNormal
	case overdueDays == 1:
		return TierWarning
	case overdueDays <= 3:
		return TierElevated
	default:
		return TierCritical
	}
}

// Classify returns the tier of a completed chore. ok is false for a chore that
// was never completed, which has no tier.
func Classify(c Chore, now time.Time) (Tier, bool) {
	if c.NeverCompleted() {
		return TierNormal, false
	}
	return SeverityTier(UrgencyScore(c, now)), true
}
