package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/linepos/pkg/resolver"
	"github.com/praetorian-inc/linepos/pkg/types"
)

// Request types
const (
	TypeReady        = "ready"
	TypeOpen         = "open"
	TypePosition     = "position"
	TypeResolveBatch = "resolve_batch"
	TypeNumLines     = "num_lines"
	TypeCloseSource  = "close_source"
	TypeClose        = "close"
	TypeDecode       = "decode"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "open" | "position" | "resolve_batch" | "num_lines" | "close_source" | "close"
	Payload json.RawMessage `json:"payload"`
}

// OpenPayload is the payload for "open" requests
type OpenPayload struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// PositionPayload is the payload for "position" requests.
// The document is chosen by the first of Source, ID or Content that is set.
type PositionPayload struct {
	Source  string            `json:"source,omitempty"`
	ID      *types.DocumentID `json:"id,omitempty"`
	Content *string           `json:"content,omitempty"`
	Offsets []int             `json:"offsets"`
}

// ResolveBatchPayload is the payload for "resolve_batch" requests
type ResolveBatchPayload struct {
	Items []resolver.ContentItem `json:"items"`
}

// NumLinesPayload is the payload for "num_lines" requests
type NumLinesPayload struct {
	ID types.DocumentID `json:"id"`
}

// NumLinesData is the data field for "num_lines" responses
type NumLinesData struct {
	ID       types.DocumentID `json:"id"`
	NumLines int              `json:"num_lines"`
}

// CloseSourcePayload is the payload for "close_source" requests
type CloseSourcePayload struct {
	Source string `json:"source"`
}

// CloseSourceData is the data field for "close_source" responses
type CloseSourceData struct {
	Closed bool `json:"closed"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // request type, "ready", or "decode"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
}
