// Package rendezvous defines the JSON wire format spoken between rendezvous
// clients and the coordinator, and a small HTTP client for it.
//
// # Wire format
//
// Requests are loose on purpose: clients written for game runtimes send ids as
// numbers, omit fields, or still use the original field names. Inbound fields are
// therefore optional. Identity fields decode through Text, which accepts
// strings, numbers and booleans; numbers take their shortest decimal form.
// The command decodes through CommandText, where false and 0 count as empty.
// contextId and locationId are Opaque: any JSON value is kept as raw JSON and
// echoed back unchanged. Timestamps decode through Millis, which accepts
// integers, fractional numbers and numeric strings.
//
//	{"userId": 4821.0, "username": "alice", "gameId": {"id": 920587}, "time": 1718000000000}
//
// decodes the same as
//
//	{"userId": "4821", "username": "alice", "contextId": {"id": 920587}, "timestamp": 1718000000000}
//
// Responses always use the current names: userId, username, contextId,
// locationId, timestamp, command.
//
// # Client
//
// Client wraps the four coordinator routes. Every call takes a context and
// returns *APIError when the coordinator answers with a non-2xx status.
package rendezvous
