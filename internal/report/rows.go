package report

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"git.home.luguber.info/inful/housechores/internal/chore"
	"git.home.luguber.info/inful/housechores/internal/foundation"
)

// Row is one ranked chore prepared for display.
type Row struct {
	Position     int                       `json:"position"`
	ID           string                    `json:"id"`
	Icon         string                    `json:"icon,omitempty"`
	Name         string                    `json:"name"`
	LastDone     foundation.Option[string] `json:"lastDone"`
	DaysSince    foundation.Option[int]    `json:"daysSince"`
	IntervalDays int                       `json:"intervalDays"`
	Score        int                       `json:"score"`
	Tier         foundation.Option[string] `json:"tier"`
}

// Rows ranks chores as of now and converts them for display.
func Rows(chores []chore.Chore, now time.Time) []Row {
	ranked := chore.Rank(chores, now)
	rows := make([]Row, 0, len(ranked))
	for i, c := range ranked {
		row := Row{
			Position:     i + 1,
			ID:           c.ID.String(),
			Icon:         singleLine(c.Icon.UnwrapOr("")),
			Name:         singleLine(c.Name),
			IntervalDays: c.IntervalDays,
			Score:        chore.UrgencyScore(c, now),
		}
		if at, ok := c.LastCompleted.Get(); ok {
			row.LastDone = foundation.Some(at.In(now.Location()).Format(time.RFC3339))
		}
		if days, ok := chore.DaysSince(c, now); ok {
			row.DaysSince = foundation.Some(days)
		}
		if tier, ok := chore.Classify(c, now); ok {
			row.Tier = foundation.Some(tier.String())
		}
		rows = append(rows, row)
	}
	return rows
}

// singleLine folds line breaks and other control characters into spaces, so
// one chore is always one table row.
func singleLine(s string) string {
	if !strings.ContainsFunc(s, unicode.IsControl) {
		return s
	}
	return strings.Join(strings.Fields(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)), " ")
}

// Ago describes DaysSince the way a person would say it.
func (r Row) Ago() string {
	days, ok := r.DaysSince.Get()
	switch {
	case !ok:
		return "never done"
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 0:
		return fmt.Sprintf("in %d days", -days)
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// Every describes the interval.
func (r Row) Every() string {
	if r.IntervalDays == 1 {
		return "every day"
	}
	return fmt.Sprintf("every %d days", r.IntervalDays)
}

// TierLabel returns the tier name, or "n/a" for a chore that was never done.
func (r Row) TierLabel() string {
	return r.Tier.UnwrapOr("n/a")
}

// ScoreLabel returns the score, or "never" in place of the sentinel.
func (r Row) ScoreLabel() string {
	if r.DaysSince.IsNone() {
		return "never"
	}
	return fmt.Sprintf("%+d", r.Score)
}
