package chore

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/housechores/internal/foundation"
	"git.home.luguber.info/inful/housechores/internal/foundation/errors"
	"git.home.luguber.info/inful/housechores/internal/metrics"
)

// memPersister keeps the last saved collection in memory.
type memPersister struct {
	mu       sync.Mutex
	stored   []Chore
	saves    int
	failWith error
}

func (p *memPersister) Load(context.Context) []Chore {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.stored)
}

func (p *memPersister) Save(_ context.Context, chores []Chore) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
	if p.failWith != nil {
		return p.failWith
	}
	p.stored = slices.Clone(chores)
	return nil
}

func (p *memPersister) snapshot() ([]Chore, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.stored), p.saves
}

// countingRecorder tallies recorder calls.
type countingRecorder struct {
	metrics.NoopRecorder
	mu        sync.Mutex
	mutations map[string]int
	failures  map[string]int
	tiers     map[string]int
	chores    int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{mutations: map[string]int{}, failures: map[string]int{}, tiers: map[string]int{}}
}

func (r *countingRecorder) IncMutation(op string, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations[op+"/"+string(result)]++
}

func (r *countingRecorder) IncPersistFailure(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[op]++
}

func (r *countingRecorder) SetChoreCount(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chores = n
}

func (r *countingRecorder) SetTierCount(tier string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers[tier] = n
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestRepo(t *testing.T, opts ...RepositoryOption) (*Repository, *memPersister, *fixedClock) {
	t.Helper()
	p := &memPersister{}
	clock := &fixedClock{now: refNow}
	opts = append([]RepositoryOption{WithClock(clock.Now)}, opts...)
	return NewRepository(t.Context(), p, opts...), p, clock
}

func TestAdd(t *testing.T) {
	repo, p, _ := newTestRepo(t)

	c, err := repo.Add(t.Context(), "Water plants", 3, foundation.None[string]())
	require.NoError(t, err)

	assert.False(t, c.ID.IsZero())
	assert.Equal(t, "Water plants", c.Name)
	assert.Equal(t, 3, c.IntervalDays)
	assert.True(t, c.NeverCompleted(), "new chores should have no completion")
	assert.True(t, c.Icon.IsNone())

	stored, saves := p.snapshot()
	assert.Equal(t, 1, saves)
	require.Len(t, stored, 1)
	assert.Equal(t, c, stored[0])
}

func TestAdd_WithIcon(t *testing.T) {
	repo, _, _ := newTestRepo(t)

	c, err := repo.Add(t.Context(), "Vacuum", 2, foundation.Some("🧹"))
	require.NoError(t, err)
	assert.Equal(t, "🧹", c.Icon.Unwrap())
}

func TestAdd_NormalizesName(t *testing.T) {
	repo, _, _ := newTestRepo(t)

	c, err := repo.Add(t.Context(), "  Water plants \n", 3, foundation.None[string]())
	require.NoError(t, err)
	assert.Equal(t, "Water plants", c.Name)

	// "e" + combining acute accent composes to a single code point.
	c, err = repo.Add(t.Context(), "Cafe\u0301 table", 3, foundation.None[string]())
	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9 table", c.Name)

	c, err = repo.Add(t.Context(), "a\nb", 3, foundation.None[string]())
	require.NoError(t, err)
	assert.Equal(t, "a b", c.Name)

	c, err = repo.Add(t.Context(), "Mop\r\n\t floors\x00", 3, foundation.None[string]())
	require.NoError(t, err)
	assert.Equal(t, "Mop floors", c.Name)
}

func TestUpdate_NormalizesName(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	c, err := repo.Add(t.Context(), "Dishes", 1, foundation.None[string]())
	require.NoError(t, err)

	require.NoError(t, repo.Update(t.Context(), c.ID, Update{Name: foundation.Some("a\nb")}))
	got, err := repo.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "a b", got.Name)

	err = repo.Update(t.Context(), c.ID, Update{Name: foundation.Some("\n\r\t")})
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestAdd_IntervalBounds(t *testing.T) {
	repo, _, _ := newTestRepo(t)

	c, err := repo.Add(t.Context(), "Check smoke alarms", MaxIntervalDays, foundation.None[string]())
	require.NoError(t, err)
	assert.Equal(t, 365, c.IntervalDays)

	_, err = repo.Add(t.Context(), "Too rare", MaxIntervalDays+1, foundation.None[string]())
	assert.ErrorIs(t, err, ErrInvalidInterval)

	err = repo.Update(t.Context(), c.ID, Update{IntervalDays: foundation.Some(400)})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestAdd_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		interval int
		sentinel error
	}{
		{"empty name", "", 3, ErrEmptyName},
		{"whitespace name", "   \t", 3, ErrEmptyName},
		{"control characters only", "\n\r\x07", 3, ErrEmptyName},
		{"zero interval", "Dust", 0, ErrInvalidInterval},
		{"negative interval", "Dust", -3, ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, p, _ := newTestRepo(t)

			_, err := repo.Add(t.Context(), tt.input, tt.interval, foundation.None[string]())
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
			assert.ErrorIs(t, err, tt.sentinel)

			assert.Equal(t, 0, repo.Len())
			_, saves := p.snapshot()
			assert.Equal(t, 0, saves, "rejected input must not trigger a save")
		})
	}
}

func TestAdd_MintsUniqueIDs(t *testing.T) {
	repo, _, _ := newTestRepo(t)

	seen := map[ID]bool{}
	for i := range 100 {
		c, err := repo.Add(t.Context(), fmt.Sprintf("chore %d", i), 1, foundation.None[string]())
		require.NoError(t, err)
		require.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestAdd_RemintsOnCollision(t *testing.T) {
	first := NewID()
	second := NewID()
	queue := []ID{first, first, {}, second}
	gen := func() ID {
		id := queue[0]
		queue = queue[1:]
		return id
	}
	repo, _, _ := newTestRepo(t, WithIDGenerator(gen))

	a, err := repo.Add(t.Context(), "A", 1, foundation.None[string]())
	require.NoError(t, err)
	b, err := repo.Add(t.Context(), "B", 1, foundation.None[string]())
	require.NoError(t, err)

	assert.Equal(t, first, a.ID)
	assert.Equal(t, second, b.ID)
}

func TestAdd_GivesUpAfterRepeatedCollisions(t *testing.T) {
	fixed := NewID()
	repo, _, _ := newTestRepo(t, WithIDGenerator(func() ID { return fixed }))

	_, err := repo.Add(t.Context(), "A", 1, foundation.None[string]())
	require.NoError(t, err)
	_, err = repo.Add(t.Context(), "B", 1, foundation.None[string]())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryInternal))
	assert.Equal(t, 1, repo.Len())
}

func TestUpdate(t *testing.T) {
	repo, p, _ := newTestRepo(t)
	c, err := repo.Add(t.Context(), "Old name", 5, foundation.None[string]())
	require.NoError(t, err)

	err = repo.Update(t.Context(), c.ID, Update{
		Name:         foundation.Some("New name"),
		IntervalDays: foundation.Some(10),
	})
	require.NoError(t, err)

	got, err := repo.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID, "id must not change")
	assert.Equal(t, "New name", got.Name)
	assert.Equal(t, 10, got.IntervalDays)
	assert.Equal(t, 1, repo.Len())

	_, saves := p.snapshot()
	assert.Equal(t, 2, saves)
}

func TestUpdate_OnlyTouchesSuppliedFields(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	c, err := repo.Add(t.Context(), "Test", 5, foundation.Some("🪴"))
	require.NoError(t, err)
	done, err := repo.Complete(t.Context(), c.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Update(t.Context(), c.ID, Update{IntervalDays: foundation.Some(7)}))

	got, err := repo.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test", got.Name)
	assert.Equal(t, 7, got.IntervalDays)
	assert.Equal(t, "🪴", got.Icon.Unwrap())
	assert.Equal(t, done.LastCompleted, got.LastCompleted, "lastCompleted should be preserved")
}

func TestUpdate_Icon(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	c, err := repo.Add(t.Context(), "Laundry", 4, foundation.None[string]())
	require.NoError(t, err)

	require.NoError(t, repo.Update(t.Context(), c.ID, Update{Icon: foundation.Some("🧺")}))
	got, _ := repo.Get(c.ID)
	assert.Equal(t, "🧺", got.Icon.Unwrap())

	require.NoError(t, repo.Update(t.Context(), c.ID, Update{ClearIcon: true}))
	got, _ = repo.Get(c.ID)
	assert.True(t, got.Icon.IsNone())
}

func TestUpdate_LastCompleted(t *testing.T) {
	repo, _, clock := newTestRepo(t)
	c, err := repo.Add(t.Context(), "Descale kettle", 30, foundation.None[string]())
	require.NoError(t, err)

	when := clock.Now().AddDate(0, 0, -12)
	require.NoError(t, repo.Update(t.Context(), c.ID, Update{LastCompleted: foundation.Some(when)}))

	got, _ := repo.Get(c.ID)
	require.True(t, got.LastCompleted.IsSome())
	assert.True(t, got.LastCompleted.Unwrap().Equal(when))
	assert.Equal(t, -18, UrgencyScore(got, clock.Now()))
}

func TestUpdate_NotFound(t *testing.T) {
	repo, p, _ := newTestRepo(t)

	err := repo.Update(t.Context(), NewID(), Update{Name: foundation.Some("x")})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
	assert.ErrorIs(t, err, ErrChoreNotFound)

	_, saves := p.snapshot()
	assert.Equal(t, 0, saves)
}

func TestUpdate_RejectedUpdateChangesNothing(t *testing.T) {
	tests := []struct {
		name     string
		update   Update
		sentinel error
	}{
		{"zero interval", Update{Name: foundation.Some("Renamed"), IntervalDays: foundation.Some(0)}, ErrInvalidInterval},
		{"empty name", Update{Name: foundation.Some("  "), IntervalDays: foundation.Some(9)}, ErrEmptyName},
		{"future completion", Update{Name: foundation.Some("Renamed"), LastCompleted: foundation.Some(refNow.Add(time.Hour))}, ErrFutureCompletion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, p, _ := newTestRepo(t)
			c, err := repo.Add(t.Context(), "Original", 5, foundation.None[string]())
			require.NoError(t, err)

			err = repo.Update(t.Context(), c.ID, tt.update)
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
			assert.ErrorIs(t, err, tt.sentinel)

			got, _ := repo.Get(c.ID)
			assert.Equal(t, c, got)
			_, saves := p.snapshot()
			assert.Equal(t, 1, saves, "only the add should have been saved")
		})
	}
}

func TestDelete(t *testing.T) {
	repo, p, _ := newTestRepo(t)
	keep, _ := repo.Add(t.Context(), "Keep this", 1, foundation.None[string]())
	drop, _ := repo.Add(t.Context(), "Delete this", 2, foundation.None[string]())
	keep2, _ := repo.Add(t.Context(), "Keep this too", 3, foundation.None[string]())

	require.NoError(t, repo.Delete(t.Context(), drop.ID))

	assert.Equal(t, 2, repo.Len())
	assert.ElementsMatch(t, []string{keep.Name, keep2.Name}, names(repo.List()))

	stored, _ := p.snapshot()
	assert.Len(t, stored, 2)
}

func TestDelete_UnknownIDIsNoop(t *testing.T) {
	rec := newCountingRecorder()
	repo, p, _ := newTestRepo(t, WithRecorder(rec))
	existing, _ := repo.Add(t.Context(), "Existing chore", 5, foundation.None[string]())
	before := repo.List()

	err := repo.Delete(t.Context(), NewID())
	require.NoError(t, err)

	assert.Equal(t, before, repo.List())
	assert.Equal(t, 1, repo.Len())
	_, err = repo.Get(existing.ID)
	assert.NoError(t, err)

	_, saves := p.snapshot()
	assert.Equal(t, 2, saves, "delete still triggers a save")
	assert.Equal(t, 1, rec.mutations["delete/noop"])
}

func TestComplete(t *testing.T) {
	repo, p, clock := newTestRepo(t)
	c, err := repo.Add(t.Context(), "Test chore", 3, foundation.None[string]())
	require.NoError(t, err)
	require.True(t, c.NeverCompleted())

	done, err := repo.Complete(t.Context(), c.ID)
	require.NoError(t, err)
	require.True(t, done.LastCompleted.IsSome())
	assert.True(t, done.LastCompleted.Unwrap().Equal(clock.Now()))

	stored, _ := p.snapshot()
	require.Len(t, stored, 1)
	assert.True(t, stored[0].LastCompleted.IsSome())
}

func TestComplete_UsesWallClockByDefault(t *testing.T) {
	repo := NewRepository(t.Context(), &memPersister{})
	c, err := repo.Add(t.Context(), "Old", 3, foundation.None[string]())
	require.NoError(t, err)

	done, err := repo.Complete(t.Context(), c.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), done.LastCompleted.Unwrap(), 2*time.Second)
}

func TestComplete_NotFound(t *testing.T) {
	repo, _, _ := newTestRepo(t)

	_, err := repo.Complete(t.Context(), NewID())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestComplete_RerankImmediately(t *testing.T) {
	p := &memPersister{stored: []Chore{
		neverDone("A", 7),
		completedAgo("B", 10, 3),
		completedAgo("C", 2, 7),
	}}
	clock := &fixedClock{now: refNow}
	repo := NewRepository(t.Context(), p, WithClock(clock.Now))

	assert.Equal(t, []string{"A", "B", "C"}, names(repo.Ranked()))

	cID := p.stored[2].ID
	done, err := repo.Complete(t.Context(), cID)
	require.NoError(t, err)
	assert.Equal(t, -7, UrgencyScore(done, clock.Now()))

	ranked := repo.Ranked()
	assert.Equal(t, []string{"A", "B", "C"}, names(ranked))
	assert.Equal(t, -7, UrgencyScore(ranked[2], clock.Now()))

	clock.Advance(9 * 24 * time.Hour)
	assert.Equal(t, 2, UrgencyScore(repo.Ranked()[2], clock.Now()), "score follows now without a refresh")
}

func TestPersistFailureIsNonFatal(t *testing.T) {
	rec := newCountingRecorder()
	repo, p, _ := newTestRepo(t, WithRecorder(rec))

	p.failWith = stderrors.New("disk full")
	a, err := repo.Add(t.Context(), "Mop floors", 7, foundation.None[string]())
	require.NoError(t, err, "a failed save must not fail the mutation")
	assert.Equal(t, 1, repo.Len())
	require.Error(t, repo.LastPersistError())
	assert.Equal(t, 1, rec.failures["add"])

	stored, _ := p.snapshot()
	assert.Empty(t, stored)

	// The next successful save carries the full current state.
	p.failWith = nil
	b, err := repo.Add(t.Context(), "Dust shelves", 14, foundation.None[string]())
	require.NoError(t, err)
	assert.NoError(t, repo.LastPersistError())

	stored, _ = p.snapshot()
	require.Len(t, stored, 2)
	assert.Equal(t, []ID{a.ID, b.ID}, []ID{stored[0].ID, stored[1].ID})
}

func TestNewRepository_SeedsFromPersister(t *testing.T) {
	seed := []Chore{completedAgo("B", 10, 3), neverDone("A", 7)}
	p := &memPersister{stored: seed}

	repo := NewRepository(t.Context(), p)
	assert.Equal(t, seed, repo.List())

	_, saves := p.snapshot()
	assert.Equal(t, 0, saves, "loading must not write")
}

func TestNewRepository_RecordsGauges(t *testing.T) {
	rec := newCountingRecorder()
	p := &memPersister{stored: []Chore{
		neverDone("A", 7),
		completedAgo("B", 10, 3),
		completedAgo("C", 2, 7),
		completedAgo("D", 8, 7),
	}}
	NewRepository(t.Context(), p, WithRecorder(rec), WithClock(func() time.Time { return refNow }))

	assert.Equal(t, 4, rec.chores)
	assert.Equal(t, 1, rec.tiers["never"])
	assert.Equal(t, 1, rec.tiers["critical"])
	assert.Equal(t, 1, rec.tiers["normal"])
	assert.Equal(t, 1, rec.tiers["warning"])
	assert.Equal(t, 0, rec.tiers["elevated"])
}

func TestList_ReturnsCopy(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	_, err := repo.Add(t.Context(), "Original", 5, foundation.None[string]())
	require.NoError(t, err)

	list := repo.List()
	list[0].Name = "Mutated"
	list = append(list, neverDone("Injected", 1))

	assert.Equal(t, []string{"Original"}, names(repo.List()))
	assert.Len(t, list, 2)
}

func TestResolve(t *testing.T) {
	idA, err := ParseID("aaaa1111-0000-4000-8000-000000000001")
	require.NoError(t, err)
	idB, err := ParseID("aaaa2222-0000-4000-8000-000000000002")
	require.NoError(t, err)
	queue := []ID{idA, idB}
	repo, _, _ := newTestRepo(t, WithIDGenerator(func() ID {
		id := queue[0]
		queue = queue[1:]
		return id
	}))
	_, _ = repo.Add(t.Context(), "A", 1, foundation.None[string]())
	_, _ = repo.Add(t.Context(), "B", 1, foundation.None[string]())

	got, err := repo.Resolve(idA.String())
	require.NoError(t, err)
	assert.Equal(t, idA, got)

	got, err = repo.Resolve("AAAA2")
	require.NoError(t, err)
	assert.Equal(t, idB, got)

	_, err = repo.Resolve("aaaa")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = repo.Resolve("bbbb")
	assert.ErrorIs(t, err, ErrChoreNotFound)

	_, err = repo.Resolve(NewID().String())
	assert.ErrorIs(t, err, ErrChoreNotFound)

	_, err = repo.Resolve("  ")
	assert.ErrorIs(t, err, ErrMalformedID)
}

func TestRepository_ConcurrentUse(t *testing.T) {
	repo, p, _ := newTestRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := repo.Add(ctx, fmt.Sprintf("chore %d", i), i+1, foundation.None[string]())
			if err != nil {
				t.Errorf("add: %v", err)
				return
			}
			_, _ = repo.Complete(ctx, c.ID)
			_ = repo.Ranked()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, repo.Len())
	stored, saves := p.snapshot()
	assert.Len(t, stored, 20)
	assert.Equal(t, 40, saves)
}

func TestParseID(t *testing.T) {
	id := NewID()

	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	// Identifiers written by other tools may be upper case.
	parsed, err = ParseID("0B5C9F3E-8A52-4F69-9C4A-2E1D5B7A6C11")
	require.NoError(t, err)
	assert.Equal(t, "0b5c9f3e-8a52-4f69-9c4a-2e1d5b7a6c11", parsed.String())

	_, err = ParseID("not-a-uuid")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedID)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}
