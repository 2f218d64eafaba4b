package chore

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/housechores/internal/foundation"
	"git.home.luguber.info/inful/housechores/internal/foundation/errors"
	"git.home.luguber.info/inful/housechores/internal/logfields"
	"git.home.luguber.info/inful/housechores/internal/metrics"
)

const (
	opAdd      = "add"
	opUpdate   = "update"
	opDelete   = "delete"
	opComplete = "complete"
)

// maxIDAttempts bounds re-minting when a generated id collides.
const maxIDAttempts = 8

// Persister stores and retrieves the full chore collection.
type Persister interface {
	// Load returns the stored collection, or an empty one when nothing usable is stored.
	Load(ctx context.Context) []Chore
	// Save replaces the stored collection with chores.
	Save(ctx context.Context, chores []Chore) error
}

// Update lists the fields to change on a chore. Unset options are left alone.
type Update struct {
	Name          foundation.Option[string]
	IntervalDays  foundation.Option[int]
	Icon          foundation.Option[string]
	ClearIcon     bool
	LastCompleted foundation.Option[time.Time]
}

// Repository owns the chore collection. All methods are safe for concurrent
// use; a single mutex covers both the mutation and the save that follows it.
type Repository struct {
	mu             sync.Mutex
	chores         []Chore
	persister      Persister
	now            func() time.Time
	newID          func() ID
	logger         *slog.Logger
	recorder       metrics.Recorder
	lastPersistErr error
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithClock sets the source of "now" used by Complete, Ranked and validation.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) { r.now = now }
}

// WithLogger sets the logger (slog.Default otherwise).
func WithLogger(logger *slog.Logger) RepositoryOption {
	return func(r *Repository) { r.logger = logger }
}

// WithRecorder sets the metrics recorder (NoopRecorder otherwise).
func WithRecorder(recorder metrics.Recorder) RepositoryOption {
	return func(r *Repository) { r.recorder = recorder }
}

// WithIDGenerator replaces NewID.
func WithIDGenerator(gen func() ID) RepositoryOption {
	return func(r *Repository) { r.newID = gen }
}

// NewRepository creates a repository seeded from persister.
func NewRepository(ctx context.Context, persister Persister, opts ...RepositoryOption) *Repository {
	r := &Repository{
		persister: persister,
		now:       time.Now,
		newID:     NewID,
		logger:    slog.Default(),
		recorder:  metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}

	r.chores = persister.Load(ctx)
	if r.chores == nil {
		r.chores = []Chore{}
	}
	r.logger.Debug("Loaded chores", logfields.Count(len(r.chores)))

	r.mu.Lock()
	r.recordGaugesLocked()
	r.mu.Unlock()
	return r
}

// Add creates a chore that has never been completed.
func (r *Repository) Add(ctx context.Context, name string, intervalDays int, icon foundation.Option[string]) (Chore, error) {
	name = NormalizeName(name)
	if err := firstErr(validateName(name), validateInterval(intervalDays)); err != nil {
		r.recorder.IncMutation(opAdd, metrics.ResultInvalid)
		return Chore{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.mintIDLocked()
	if err != nil {
		return Chore{}, err
	}
	c := Chore{
		ID:           id,
		Name:         name,
		IntervalDays: intervalDays,
		Icon:         icon,
	}
	r.chores = append(r.chores, c)
	r.persistLocked(ctx, opAdd)

	r.recorder.IncMutation(opAdd, metrics.ResultSuccess)
	r.logger.Debug("Chore added",
		logfields.ChoreID(c.ID.String()),
		logfields.ChoreName(c.Name),
		logfields.IntervalDays(c.IntervalDays))
	return c, nil
}

// Update applies the supplied fields of u to the chore with the given id.
// All fields are validated before any is applied.
func (r *Repository) Update(ctx context.Context, id ID, u Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		r.recorder.IncMutation(opUpdate, metrics.ResultNotFound)
		return ErrChoreNotFound.WithContext("id", id.String())
	}

	next := r.chores[idx]
	if name, ok := u.Name.Get(); ok {
		name = NormalizeName(name)
		if err := validateName(name); err != nil {
			r.recorder.IncMutation(opUpdate, metrics.ResultInvalid)
			return err
		}
		next.Name = name
	}
	if days, ok := u.IntervalDays.Get(); ok {
		if err := validateInterval(days); err != nil {
			r.recorder.IncMutation(opUpdate, metrics.ResultInvalid)
			return err
		}
		next.IntervalDays = days
	}
	if u.ClearIcon {
		next.Icon = foundation.None[string]()
	} else if u.Icon.IsSome() {
		next.Icon = u.Icon
	}
	if at, ok := u.LastCompleted.Get(); ok {
		if at.After(r.now()) {
			r.recorder.IncMutation(opUpdate, metrics.ResultInvalid)
			return ErrFutureCompletion.WithContext("last_completed", at.Format(time.RFC3339))
		}
		next.LastCompleted = foundation.Some(at.Round(0))
	}

	r.chores[idx] = next
	r.persistLocked(ctx, opUpdate)

	r.recorder.IncMutation(opUpdate, metrics.ResultSuccess)
	r.logger.Debug("Chore updated", logfields.ChoreID(id.String()))
	return nil
}

// Delete removes the chore with the given id. An unknown id is not an error.
func (r *Repository) Delete(ctx context.Context, id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := metrics.ResultNoop
	if idx := r.indexLocked(id); idx >= 0 {
		r.chores = slices.Delete(r.chores, idx, idx+1)
		result = metrics.ResultSuccess
	}
	r.persistLocked(ctx, opDelete)

	r.recorder.IncMutation(opDelete, result)
	r.logger.Debug("Chore deleted",
		logfields.ChoreID(id.String()),
		slog.Bool("existed", result == metrics.ResultSuccess))
	return nil
}

// Complete records that the chore was done now and returns the updated chore.
func (r *Repository) Complete(ctx context.Context, id ID) (Chore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		r.recorder.IncMutation(opComplete, metrics.ResultNotFound)
		return Chore{}, ErrChoreNotFound.WithContext("id", id.String())
	}

	r.chores[idx].LastCompleted = foundation.Some(r.now().Round(0))
	r.persistLocked(ctx, opComplete)

	r.recorder.IncMutation(opComplete, metrics.ResultSuccess)
	r.logger.Debug("Chore completed", logfields.ChoreID(id.String()))
	return r.chores[idx], nil
}

// List returns a copy of every chore. The order carries no meaning; use Rank
// or Ranked for display order.
func (r *Repository) List() []Chore {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.chores)
}

// Ranked returns the chores ordered by urgency as of the repository's now.
func (r *Repository) Ranked() []Chore {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Rank(r.chores, r.now())
}

// Get returns the chore with the given id.
func (r *Repository) Get(id ID) (Chore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return Chore{}, ErrChoreNotFound.WithContext("id", id.String())
	}
	return r.chores[idx], nil
}

// Len returns the number of chores.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chores)
}

// Now returns the repository's current time.
func (r *Repository) Now() time.Time {
	return r.now()
}

// Resolve turns a full id or a unique, case-insensitive prefix of one into an ID.
func (r *Repository) Resolve(ref string) (ID, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return ID{}, ErrMalformedID.WithContext("id", ref)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, err := ParseID(ref); err == nil {
		if r.indexLocked(id) < 0 {
			return ID{}, ErrChoreNotFound.WithContext("id", ref)
		}
		return id, nil
	}

	var matches []ID
	for _, c := range r.chores {
		if strings.HasPrefix(c.ID.String(), ref) {
			matches = append(matches, c.ID)
		}
	}
	switch len(matches) {
	case 0:
		return ID{}, ErrChoreNotFound.WithContext("id", ref)
	case 1:
		return matches[0], nil
	default:
		return ID{}, ErrAmbiguousID.WithContext("id", ref).WithContext("matches", len(matches))
	}
}

// LastPersistError returns the error of the most recent save, or nil if it succeeded.
func (r *Repository) LastPersistError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPersistErr
}

func (r *Repository) indexLocked(id ID) int {
	return slices.IndexFunc(r.chores, func(c Chore) bool { return c.ID == id })
}

func (r *Repository) mintIDLocked() (ID, error) {
	for range maxIDAttempts {
		id := r.newID()
		if !id.IsZero() && r.indexLocked(id) < 0 {
			return id, nil
		}
	}
	return ID{}, errors.InternalError("could not mint a unique chore id").Build()
}

// persistLocked saves the whole collection. A failure is recorded, not returned:
// the mutation that triggered the save stands.
func (r *Repository) persistLocked(ctx context.Context, op string) {
	start := time.Now()
	err := r.persister.Save(ctx, slices.Clone(r.chores))
	elapsed := time.Since(start)
	r.recorder.ObserveSaveDuration(elapsed)

	r.lastPersistErr = err
	if err != nil {
		r.recorder.IncPersistFailure(op)
		r.logger.Warn("Failed to persist chores; keeping in-memory state",
			logfields.Operation(op),
			logfields.Count(len(r.chores)),
			logfields.Error(err))
	} else {
		r.logger.Debug("Chores persisted",
			logfields.Operation(op),
			logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	}
	r.recordGaugesLocked()
}

func (r *Repository) recordGaugesLocked() {
	now := r.now()
	counts := make(map[Tier]int, len(Tiers))
	never := 0
	for _, c := range r.chores {
		tier, ok := Classify(c, now)
		if !ok {
			never++
			continue
		}
		counts[tier]++
	}
	r.recorder.SetChoreCount(len(r.chores))
	for _, t := range Tiers {
		r.recorder.SetTierCount(t.String(), counts[t])
	}
	r.recorder.SetTierCount("never", never)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
