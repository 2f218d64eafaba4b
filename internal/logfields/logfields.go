package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyChoreID    = "chore_id"
	KeyChoreName  = "chore_name"
	KeyOperation  = "operation"
	KeyBackend    = "backend"
	KeyKey        = "key"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyTier       = "tier"
	KeyIntervalD  = "interval_days"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func ChoreID(id string) slog.Attr     { return slog.String(KeyChoreID, id) }
func ChoreName(n string) slog.Attr    { return slog.String(KeyChoreName, n) }
func Operation(op string) slog.Attr   { return slog.String(KeyOperation, op) }
func Backend(b string) slog.Attr      { return slog.String(KeyBackend, b) }
func Key(k string) slog.Attr          { return slog.String(KeyKey, k) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Tier(t string) slog.Attr         { return slog.String(KeyTier, t) }
func IntervalDays(d int) slog.Attr    { return slog.Int(KeyIntervalD, d) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
