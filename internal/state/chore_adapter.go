package state

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"git.home.luguber.info/inful/housechores/internal/chore"
	"git.home.luguber.info/inful/housechores/internal/foundation"
	"git.home.luguber.info/inful/housechores/internal/foundation/errors"
	"git.home.luguber.info/inful/housechores/internal/logfields"
)

// ChoresKey is the key the collection is stored under.
const ChoresKey = "chores"

// choreRecord is the persisted layout of one chore. Every field is always
// written; absent optionals encode as null.
type choreRecord struct {
	ID              string                       `json:"id"`
	Name            string                       `json:"name"`
	LastDone        foundation.Option[time.Time] `json:"lastDone"`
	FrequencyInDays int                          `json:"frequencyInDays"`
	Emoji           foundation.Option[string]    `json:"emoji"`
}

// ChoreAdapter stores the chore collection in a KVStore. It implements
// chore.Persister.
type ChoreAdapter struct {
	store  KVStore
	logger *slog.Logger
}

var _ chore.Persister = (*ChoreAdapter)(nil)

// NewChoreAdapter creates an adapter over store. A nil logger means slog.Default().
func NewChoreAdapter(store KVStore, logger *slog.Logger) *ChoreAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChoreAdapter{store: store, logger: logger}
}

// Save encodes chores and writes them under ChoresKey.
func (a *ChoreAdapter) Save(ctx context.Context, chores []chore.Chore) error {
	data, err := EncodeChores(chores)
	if err != nil {
		return errors.PersistenceFailure("failed to encode chores").
			WithCause(err).
			WithContext("count", len(chores)).
			Build()
	}
	if err := a.store.Set(ctx, ChoresKey, data); err != nil {
		return errors.PersistenceFailure("failed to write chores").
			WithCause(err).
			WithContext("key", ChoresKey).
			Build()
	}
	return nil
}

// Load reads the stored collection. Nothing stored, a read failure and an
// undecodable value all give an empty collection.
func (a *ChoreAdapter) Load(ctx context.Context) []chore.Chore {
	stored, err := a.store.Get(ctx, ChoresKey)
	if err != nil {
		a.logger.Warn("Failed to read stored chores; starting empty",
			logfields.Key(ChoresKey), logfields.Error(err))
		return []chore.Chore{}
	}
	data, ok := stored.Get()
	if !ok {
		return []chore.Chore{}
	}

	chores, skipped, err := DecodeChores(data)
	if err != nil {
		a.logger.Warn("Stored chores are corrupt; starting empty",
			logfields.Key(ChoresKey), logfields.Error(err))
		return []chore.Chore{}
	}
	if skipped > 0 {
		a.logger.Warn("Skipped invalid chore records",
			logfields.Key(ChoresKey), logfields.Count(skipped))
	}
	return chores
}

// EncodeChores renders chores in the persisted layout.
func EncodeChores(chores []chore.Chore) ([]byte, error) {
	records := make([]choreRecord, 0, len(chores))
	for _, c := range chores {
		records = append(records, choreRecord{
			ID:              c.ID.String(),
			Name:            c.Name,
			LastDone:        c.LastCompleted,
			FrequencyInDays: c.IntervalDays,
			Emoji:           c.Icon,
		})
	}
	return json.Marshal(records)
}

// DecodeChores parses the persisted layout. A value that is not a JSON array
// is an error. Individual records that cannot be decoded, or that carry an
// unusable id, an empty name or an interval below one day, are skipped and
// counted; the first record wins when ids repeat.
func DecodeChores(data []byte) (chores []chore.Chore, skipped int, err error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, err
	}

	chores = make([]chore.Chore, 0, len(raw))
	seen := make(map[chore.ID]struct{}, len(raw))
	for _, msg := range raw {
		var rec choreRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			skipped++
			continue
		}
		c, ok := rec.toChore()
		if !ok {
			skipped++
			continue
		}
		if _, dup := seen[c.ID]; dup {
			skipped++
			continue
		}
		seen[c.ID] = struct{}{}
		chores = append(chores, c)
	}
	return chores, skipped, nil
}

func (r choreRecord) toChore() (chore.Chore, bool) {
	name := chore.NormalizeName(r.Name)
	if strings.TrimSpace(r.ID) == "" || name == "" || r.FrequencyInDays < 1 {
		return chore.Chore{}, false
	}
	id, err := chore.ParseID(r.ID)
	if err != nil || id.IsZero() {
		return chore.Chore{}, false
	}
	return chore.Chore{
		ID:            id,
		Name:          name,
		LastCompleted: r.LastDone,
		IntervalDays:  r.FrequencyInDays,
		Icon:          r.Emoji,
	}, true
}
