package gateway

import (
	"github.com/tidwall/gjson"
)

// messageShapeMarkers are the top-level fields whose presence marks an
// upstream body as a message record. Any one of them qualifies:
//
//	guid        message GUID (flat record)
//	srcTxHash   source transaction hash (flat record)
//	message     single-message envelope
//	srcChainId  source chain id (flat record)
//
// A non-empty "messages" array also qualifies (list envelope).
//
// Scan APIs have changed shape before; new markers get added here.
var messageShapeMarkers = []string{"guid", "srcTxHash", "message", "srcChainId"}

// IsMessagePayload reports whether body looks like a message-bridge record.
func IsMessagePayload(body []byte) bool {
	if !gjson.ValidBytes(body) {
		return false
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return false
	}

	for _, field := range messageShapeMarkers {
		if truthy(root.Get(field)) {
			return true
		}
	}

	messages := root.Get("messages")
	return messages.IsArray() && len(messages.Array()) > 0
}

// truthy mirrors how loosely typed JSON consumers test a field: missing,
// null, false, zero and empty string are all "absent".
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}
