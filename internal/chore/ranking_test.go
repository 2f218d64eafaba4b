package chore

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/housechores/internal/foundation"
)

var refNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func completedAgo(name string, days, interval int) Chore {
	return Chore{
		ID:            NewID(),
		Name:          name,
		IntervalDays:  interval,
		LastCompleted: foundation.Some(refNow.AddDate(0, 0, -days)),
	}
}

func neverDone(name string, interval int) Chore {
	return Chore{ID: NewID(), Name: name, IntervalDays: interval}
}

func TestUrgencyScore_NeverCompletedIsSentinel(t *testing.T) {
	for _, interval := range []int{1, 7, 365} {
		for _, now := range []time.Time{refNow, refNow.AddDate(5, 0, 0), time.Time{}} {
			assert.Equal(t, NeverCompletedScore, UrgencyScore(neverDone("A", interval), now))
		}
	}
	_, ok := DaysSince(neverDone("A", 7), refNow)
	assert.False(t, ok)
}

func TestUrgencyScore_Scenarios(t *testing.T) {
	t.Run("overdue chore is critical", func(t *testing.T) {
		b := completedAgo("B", 10, 3)

		days, ok := DaysSince(b, refNow)
		require.True(t, ok)
		assert.Equal(t, 10, days)
		assert.Equal(t, 7, UrgencyScore(b, refNow))

		tier, ok := Classify(b, refNow)
		require.True(t, ok)
		assert.Equal(t, TierCritical, tier)
	})

	t.Run("early chore is normal", func(t *testing.T) {
		c := completedAgo("C", 2, 7)
		assert.Equal(t, -5, UrgencyScore(c, refNow))

		tier, ok := Classify(c, refNow)
		require.True(t, ok)
		assert.Equal(t, TierNormal, tier)
	})

	t.Run("completed exactly one interval ago is on schedule", func(t *testing.T) {
		c := completedAgo("D", 7, 7)
		assert.Equal(t, 0, UrgencyScore(c, refNow))
		assert.Equal(t, TierNormal, SeverityTier(UrgencyScore(c, refNow)))
	})

	t.Run("never done has no tier", func(t *testing.T) {
		_, ok := Classify(neverDone("A", 7), refNow)
		assert.False(t, ok)
	})
}

func TestDaysSince_CalendarGranularity(t *testing.T) {
	tests := []struct {
		name string
		last time.Time
		now  time.Time
		want int
	}{
		{
			name: "two minutes across midnight is one day",
			last: time.Date(2026, 10, 17, 23, 59, 0, 0, time.UTC),
			now:  time.Date(2026, 10, 18, 0, 1, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "almost a full day on the same date is zero",
			last: time.Date(2026, 10, 18, 0, 1, 0, 0, time.UTC),
			now:  time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "across a month boundary",
			last: time.Date(2026, 9, 28, 8, 0, 0, 0, time.UTC),
			now:  time.Date(2026, 10, 3, 7, 0, 0, 0, time.UTC),
			want: 5,
		},
		{
			name: "completion in the future counts negative",
			last: time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC),
			now:  refNow,
			want: -2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Chore{IntervalDays: 1, LastCompleted: foundation.Some(tt.last)}
			got, ok := DaysSince(c, tt.now)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaysSince_UsesLocationOfNow(t *testing.T) {
	// 23:30 UTC is already the next day in UTC+2.
	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	last := time.Date(2026, 10, 17, 23, 30, 0, 0, time.UTC)
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, plusTwo)

	c := Chore{IntervalDays: 1, LastCompleted: foundation.Some(last)}
	days, ok := DaysSince(c, now)
	require.True(t, ok)
	assert.Equal(t, 0, days)

	days, _ = DaysSince(c, now.UTC())
	assert.Equal(t, 1, days)
}

func TestDaysSince_DSTTransition(t *testing.T) {
	budapest, err := time.LoadLocation("Europe/Budapest")
	require.NoError(t, err)

	// Clocks jump forward on 2026-03-29; only 46 hours pass between these instants.
	last := time.Date(2026, 3, 28, 12, 0, 0, 0, budapest)
	now := time.Date(2026, 3, 30, 11, 0, 0, 0, budapest)
	require.Equal(t, 46*time.Hour, now.Sub(last))

	c := Chore{IntervalDays: 2, LastCompleted: foundation.Some(last)}
	days, ok := DaysSince(c, now)
	require.True(t, ok)
	assert.Equal(t, 2, days)
	assert.Equal(t, 0, UrgencyScore(c, now))
}

func TestRank(t *testing.T) {
	a := neverDone("A", 7)
	b := completedAgo("B", 10, 3)
	c := completedAgo("C", 2, 7)

	input := []Chore{b, c, a}
	ranked := Rank(input, refNow)

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"A", "B", "C"}, names(ranked))
	assert.Equal(t, []string{"B", "C", "A"}, names(input), "input must not be reordered")
}

func TestRank_StableForEqualScores(t *testing.T) {
	// Each pair shares a score: never done (1000), 2 days overdue, 3 days early.
	input := []Chore{
		completedAgo("early-1", 4, 7),
		neverDone("never-1", 3),
		completedAgo("overdue-1", 5, 3),
		completedAgo("early-2", 1, 4),
		neverDone("never-2", 30),
		completedAgo("overdue-2", 9, 7),
	}

	ranked := Rank(input, refNow)
	assert.Equal(t,
		[]string{"never-1", "never-2", "overdue-1", "overdue-2", "early-1", "early-2"},
		names(ranked))
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil, refNow))
}

func TestSeverityTier(t *testing.T) {
	tests := []struct {
		overdue int
		want    Tier
	}{
		{-5, TierNormal},
		{0, TierNormal},
		{1, TierWarning},
		{2, TierElevated},
		{3, TierElevated},
		{4, TierCritical},
		{100, TierCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityTier(tt.overdue), "overdue=%d", tt.overdue)
	}
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "normal", TierNormal.String())
	assert.Equal(t, "warning", TierWarning.String())
	assert.Equal(t, "elevated", TierElevated.String())
	assert.Equal(t, "critical", TierCritical.String())
	assert.Equal(t, "unknown", Tier(42).String())
}

func names(chores []Chore) []string {
	out := make([]string, len(chores))
	for i, c := range chores {
		out[i] = c.Name
	}
	return out
}
