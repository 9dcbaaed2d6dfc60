// Package commandlog implements the bounded, insertion-ordered log of commands
// relayed through the rendezvous coordinator.
//
// The log is a fixed-capacity ring buffer. Appending to a full log overwrites the
// oldest-inserted entry, so the log always holds the most recently inserted
// Cap() entries. Order is insertion order, not timestamp order: timestamps are
// supplied by callers and are never checked for monotonicity.
//
//	capacity 4, after appending c1..c6:
//
//	buf:   [ c5 | c6 | c3 | c4 ]
//	               ▲
//	             head (oldest = c3)
//
// Readers poll with Since(watermark) and advance their watermark to the largest
// timestamp they have seen. An entry evicted before a reader fetched it is gone
// for good; that is the price of bounded memory and is not reported as an error.
//
// All methods are safe for concurrent use.
package commandlog
