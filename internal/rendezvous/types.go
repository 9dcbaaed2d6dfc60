package rendezvous

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Response status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// PresenceEntry is a presence record as returned by the coordinator.
type PresenceEntry struct {
	ContextID  Opaque `json:"contextId"`
	LocationID Opaque `json:"locationId"`
	UserID     string  `json:"userId"`
	Username   string  `json:"username"`
	Timestamp  int64   `json:"timestamp"`
}

// CommandEntry is a relayed command as returned by GET /commands.
type CommandEntry struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Command   string `json:"command"`
	Timestamp int64  `json:"timestamp"`
}

// PresenceReport is the body of POST /presence. Every field is optional.
type PresenceReport struct {
	UserID     *Text   `json:"userId,omitempty"`
	Username   *Text   `json:"username,omitempty"`
	ContextID  Opaque  `json:"contextId,omitempty"`
	LocationID Opaque  `json:"locationId,omitempty"`
	Timestamp  *Millis `json:"timestamp,omitempty"`

	// Original field names, still accepted from older clients.
	GameID  Opaque  `json:"gameId,omitempty"`
	PlaceID Opaque  `json:"placeId,omitempty"`
	Time    *Millis `json:"time,omitempty"`
}

// Context returns contextId, falling back to the legacy gameId.
// The result is nil when neither is set.
func (r PresenceReport) Context() json.RawMessage {
	return firstOpaque(r.ContextID, r.GameID)
}

// Location returns locationId, falling back to the legacy placeId.
func (r PresenceReport) Location() json.RawMessage {
	return firstOpaque(r.LocationID, r.PlaceID)
}

// At returns timestamp, falling back to the legacy time field.
func (r PresenceReport) At() *int64 {
	return firstMillis(r.Timestamp, r.Time)
}

// CommandRequest is the body of POST /command.
type CommandRequest struct {
	UserID    *Text        `json:"userId,omitempty"`
	Username  *Text        `json:"username,omitempty"`
	Command   *CommandText `json:"command,omitempty"`
	Timestamp *Millis      `json:"timestamp,omitempty"`
	Time      *Millis      `json:"time,omitempty"` // legacy name for timestamp
}

// At returns timestamp, falling back to the legacy time field.
func (r CommandRequest) At() *int64 {
	return firstMillis(r.Timestamp, r.Time)
}

// StatusResponse is the acknowledgement or error body shared by all routes.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// OnlineResponse is the body returned by both presence routes.
type OnlineResponse struct {
	Status string          `json:"status"`
	Online []PresenceEntry `json:"online"`
}

// Text is a string that also decodes from JSON numbers and booleans. Numbers
// take their shortest decimal form, so 1, 1.0 and 1e0 all decode to "1".
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty text value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{', '[':
		return fmt.Errorf("text value must be a string, number or boolean, got %s", data)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*t = Text(strconv.FormatBool(b))
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("text value %s is not a number: %w", data, err)
		}
		if f == 0 {
			f = 0 // -0 reads as 0
		}
		*t = Text(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}

// Ptr returns t as a *string, or nil when t is nil.
func (t *Text) Ptr() *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

// CommandText is the command payload. It decodes like Text, except that the
// falsy values false and 0 decode to "" and so count as no command.
type CommandText string

// UnmarshalJSON implements json.Unmarshaler.
func (c *CommandText) UnmarshalJSON(data []byte) error {
	var t Text
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	switch data = bytes.TrimSpace(data); {
	case bytes.Equal(data, []byte("false")):
		*c = ""
	case data[0] != '"' && t == "0":
		*c = ""
	default:
		*c = CommandText(t)
	}
	return nil
}

// Ptr returns c as a *string, or nil when c is nil.
func (c *CommandText) Ptr() *string {
	if c == nil {
		return nil
	}
	s := string(*c)
	return &s
}

// Opaque is a JSON value the coordinator stores and echoes without
// interpreting it. A JSON null decodes to nil and nil encodes as null.
type Opaque []byte

// OpaqueText returns s encoded as a JSON string.
func OpaqueText(s string) Opaque {
	data, _ := json.Marshal(s)
	return Opaque(data)
}

// MarshalJSON implements json.Marshaler.
func (o Opaque) MarshalJSON() ([]byte, error) {
	if len(o) == 0 {
		return []byte("null"), nil
	}
	return o, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Opaque) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}
	*o = append((*o)[:0], data...)
	return nil
}

// String returns the value for display: JSON strings unquoted, anything else
// as its JSON text, "" when unset.
func (o Opaque) String() string {
	if len(o) == 0 {
		return ""
	}
	var s string
	if o[0] == '"' && json.Unmarshal(o, &s) == nil {
		return s
	}
	return string(o)
}

// Millis is a millisecond timestamp that decodes from JSON integers, fractional
// numbers (truncated toward zero) and strings holding a decimal integer.
type Millis int64

// UnmarshalJSON implements json.Unmarshaler.
func (m *Millis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return fmt.Errorf("timestamp %q is not an integer: %w", s, err)
		}
		*m = Millis(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("timestamp must be a number: %w", err)
	}
	if v, err := n.Int64(); err == nil {
		*m = Millis(v)
		return nil
	}
	f, err := n.Float64()
	if err != nil || f >= math.MaxInt64 || f < math.MinInt64 {
		return fmt.Errorf("timestamp %s out of range", n)
	}
	*m = Millis(int64(f))
	return nil
}

// Ptr returns m as an *int64, or nil when m is nil.
func (m *Millis) Ptr() *int64 {
	if m == nil {
		return nil
	}
	v := int64(*m)
	return &v
}

func firstOpaque(vals ...Opaque) json.RawMessage {
	for _, v := range vals {
		if len(v) > 0 {
			return bytes.Clone(v)
		}
	}
	return nil
}

func firstMillis(vals ...*Millis) *int64 {
	for _, v := range vals {
		if v != nil {
			return v.Ptr()
		}
	}
	return nil
}
