// Package aiid provides ID generation for tool calls.
package aiid

import (
	"github.com/rs/xid"
)

const callIDPrefix = "call_"

// MakeCallID creates a sortable, globally unique tool call ID.
// Format: "call_{xid}"
func MakeCallID() string {
	return callIDPrefix + xid.New().String()
}
