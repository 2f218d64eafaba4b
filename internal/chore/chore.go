package chore

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/housechores/internal/foundation"
)

// ID identifies a chore. It is minted once in Repository.Add and never changes.
type ID uuid.UUID

// NewID returns a fresh random ID.
func NewID() ID {
	return ID(uuid.New())
}

// ParseID parses the canonical string form of an ID. Case is ignored.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return ID{}, ErrMalformedID.WithContext("id", s).WithCause(err)
	}
	return ID(u), nil
}

// String returns the canonical lower-case form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Chore is a recurring task record.
type Chore struct {
	ID            ID
	Name          string
	LastCompleted foundation.Option[time.Time]
	IntervalDays  int
	Icon          foundation.Option[string]
}

// NeverCompleted reports whether the chore has no recorded completion.
func (c Chore) NeverCompleted() bool {
	return c.LastCompleted.IsNone()
}

// MaxIntervalDays is the longest repeat interval, one year.
const MaxIntervalDays = 365

// NormalizeName folds line breaks, tabs and other control characters into
// single spaces, trims the ends and converts name to NFC so that visually
// identical names compare equal regardless of input method. A name is
// always one line.
func NormalizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
	return norm.NFC.String(strings.Join(strings.Fields(name), " "))
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	return nil
}

func validateInterval(days int) error {
	if days < 1 || days > MaxIntervalDays {
		return ErrInvalidInterval.WithContext("interval_days", days)
	}
	return nil
}
