// Package presence holds the live table of online entities reported to the
// rendezvous coordinator.
//
// # Overview
//
// Every client that can reach the coordinator periodically asserts "this user is
// active, doing this, over there". The table keeps exactly one Entry per user
// identity and answers "who is online right now" with a full snapshot.
//
//	┌──────────────────────────────────────┐
//	│              Table                   │
//	├──────────────────────────────────────┤
//	│  order: []Entry   (first-report order)│
//	│  index: userID → position in order    │
//	│  mu:    RWMutex                       │
//	└──────────────────────────────────────┘
//
// # Semantics
//
// Upsert is last-write-wins. A second report for the same user replaces every
// field of the first one; nothing is merged. The replaced entry keeps the slot it
// was first inserted into, so snapshots list users in the order they first
// appeared.
//
// Entries are never removed by Upsert. The only removal path is
// RemoveOlderThan, which the coordinator's reaper calls when a presence TTL is
// configured. Without a TTL the table grows with the number of distinct users
// ever seen.
//
// # Concurrency
//
// All methods are safe for concurrent use. Mutations take the write lock for the
// whole replace-or-append step, so reports for different users never clobber each
// other. Snapshot and Get return copies.
package presence
