package api

// StreamMessageType represents the type of a progress stream frame
type StreamMessageType string

const (
	// StreamMessageTypeOutput carries a chunk of child process output
	StreamMessageTypeOutput StreamMessageType = "output"
	// StreamMessageTypeResult carries the final output of a successful run
	StreamMessageTypeResult StreamMessageType = "result"
	// StreamMessageTypeError carries the failure of a run
	StreamMessageTypeError StreamMessageType = "error"
)

// StreamMessage is one websocket frame sent while a playbook runs.
type StreamMessage struct {
	Type   StreamMessageType `json:"type"`
	Stream string            `json:"stream,omitempty"`
	Data   string            `json:"data,omitempty"`
	Result *RunResponse      `json:"result,omitempty"`
	Error  *ErrorResponse    `json:"error,omitempty"`
}
