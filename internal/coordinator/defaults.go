package coordinator

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/samber/lo"
)

// Defaults applied to absent request fields.
const (
	DefaultUserID   = "unknown"
	DefaultUsername = "unknown"
)

// userIDOrDefault collapses an absent identity onto DefaultUserID. Every
// anonymous reporter therefore shares one presence slot.
func userIDOrDefault(v *string) string {
	return lo.FromPtrOr(v, DefaultUserID)
}

func usernameOrDefault(v *string) string {
	return lo.FromPtrOr(v, DefaultUsername)
}

// optionalRef copies an opaque reference. Absent and JSON null both become
// nil; contextId and locationId have no default.
func optionalRef(v json.RawMessage) json.RawMessage {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil
	}
	return bytes.Clone(v)
}

// timestampOrNow uses the caller's timestamp when present, otherwise now.
func timestampOrNow(v *int64, now func() int64) int64 {
	if v != nil {
		return *v
	}
	return now()
}

// commandText trims surrounding whitespace. Absent commands become "".
func commandText(v *string) string {
	return strings.TrimSpace(lo.FromPtr(v))
}
