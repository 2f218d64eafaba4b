// Package state persists the chore collection.
//
// Storage is split in two layers:
//   - KVStore, a minimal key-value contract with three backends
//     (JSONFileStore, SQLiteStore, MemoryStore)
//   - ChoreAdapter, which encodes the whole collection as one JSON array
//     under the "chores" key and implements chore.Persister
//
// Saves replace the stored value wholesale. Loads never fail: a missing or
// unreadable value yields an empty collection and a logged warning.
package state
