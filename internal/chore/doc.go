// Package chore is the chore record store.
//
// It owns the Chore model, the urgency ranking used to order chores for
// display, and the Repository through which every mutation flows. Each
// successful mutation is followed synchronously by a save of the full
// collection through a Persister; a failed save is logged and counted but
// never undoes the mutation, because the in-memory collection is the source
// of truth for the running process.
//
// Reads (List, Ranked, Get) never touch the Persister. It is consulted for
// loading only once, when the Repository is constructed.
package chore
