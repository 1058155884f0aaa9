package events

// Event type constants for kelindar/event.
const (
	TypeLogEntry uint32 = iota + 1
	TypePipelineBuilt
	TypeSessionState
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Monotonic sequence number for deduplication"`
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"api" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }

// PipelineBuiltEvent is published whenever a pipeline command is
// assembled, by the run command or by the preview endpoint.
type PipelineBuiltEvent struct {
	Mode      string `json:"mode" example:"screenshare" doc:"Session mode: view or screenshare"`
	Role      string `json:"role" example:"listen" doc:"Connection role: listen or call"`
	URI       string `json:"uri" example:"srt://:5000" doc:"SRT URI of the session"`
	Command   string `json:"command" doc:"Full pipeline command line"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Build timestamp"`
}

// Type returns the event type identifier for PipelineBuiltEvent.
func (e PipelineBuiltEvent) Type() uint32 { return TypePipelineBuilt }

// SessionStateEvent reports child process lifecycle transitions.
type SessionStateEvent struct {
	State     string `json:"state" example:"running" doc:"Session state: starting, running, restarting, exited"`
	ExitCode  int    `json:"exit_code,omitempty" doc:"Exit code, meaningful only for exited"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SessionStateEvent.
func (e SessionStateEvent) Type() uint32 { return TypeSessionState }
