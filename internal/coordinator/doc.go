// Package coordinator implements the state model of the rendezvous coordinator:
// a live presence table and a bounded command log, plus the request contracts
// that clients polling over HTTP observe.
//
// # Overview
//
// Clients that cannot reach each other report presence to, and relay short
// command strings through, one shared coordinator. The Coordinator is the single
// point of truth for "who is online" and "what was recently asked of whom".
//
//	┌──────────────────────────────────────┐
//	│            Coordinator               │
//	├──────────────────────────────────────┤
//	│  ┌────────────────────────────────┐  │
//	│  │ Presence Table                 │  │
//	│  │  - one entry per userId        │  │
//	│  │  - last write wins             │  │
//	│  └────────────────────────────────┘  │
//	│  ┌────────────────────────────────┐  │
//	│  │ Command Log                    │  │
//	│  │  - ring of 200 entries         │  │
//	│  │  - oldest inserted evicted     │  │
//	│  └────────────────────────────────┘  │
//	│  ┌────────────────────────────────┐  │
//	│  │ Reaper (optional)              │  │
//	│  │  - expires presence after TTL  │  │
//	│  └────────────────────────────────┘  │
//	└──────────────────────────────────────┘
//
// # Operations
//
// ReportPresence: apply defaults, replace the caller's entry, return the table.
//
// SnapshotPresence: return the table without mutating it.
//
// AppendCommand: apply defaults, trim and validate the command, append it.
// An empty command yields *ValidationError and appends nothing.
//
// ListCommandsSince: return retained commands with a timestamp strictly greater
// than the watermark, in insertion order.
//
// # Defaults
//
// Absent fields are filled before validation, each by its own helper:
//
//	userId     → DefaultUserID ("unknown")
//	username   → DefaultUsername ("unknown")
//	contextId  → nil
//	locationId → nil
//	timestamp  → Options.Clock, in milliseconds
//
// Reports without a userId all land on the "unknown" key and overwrite each
// other. That is accepted behavior, not an error.
//
// # Presence-only mode
//
// With Options.CommandsEnabled false the coordinator relays no commands:
// AppendCommand and ListCommandsSince return ErrCommandsDisabled and the HTTP
// layer answers those routes with 404. Presence behaves identically in both
// modes.
//
// # Concurrency
//
// Each store guards itself with a read-write mutex. A mutation (replace one
// entry, or append one entry and evict the oldest) happens under a single write
// lock, so concurrent writers never lose updates and the log never transiently
// exceeds its capacity. Reads see every write that completed before them.
// There is no lock spanning both stores; no operation needs one.
//
// # Presence expiry
//
// By default presence entries live forever and the table grows with the number
// of distinct users. Setting Options.PresenceTTL and running a Reaper removes
// entries whose timestamp is older than now minus the TTL.
package coordinator
