// Package models defines request and response bodies for the HTTP API.
package models

import (
	"github.com/srtcast/srtcast/internal/display"
	"github.com/srtcast/srtcast/internal/geometry"
	"github.com/srtcast/srtcast/internal/session"
)

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"1.2.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc123" doc:"Git commit hash"`
	BuildDate string `json:"build_date" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go version used to build"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Target platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Option schema models
type OptionsData struct {
	Options []session.Option `json:"options" doc:"Available session options with metadata"`
	Count   int              `json:"count" example:"12" doc:"Number of options"`
}

type OptionsResponse struct {
	Body OptionsData
}

// Display models
type DisplaysData struct {
	Displays   []display.Geometry `json:"displays" doc:"Connected displays in stable index order"`
	Count      int                `json:"count" example:"2" doc:"Number of displays"`
	AllScreens geometry.Rect      `json:"all_screens" doc:"Bounding box covering every display"`
}

type DisplaysResponse struct {
	Body DisplaysData
}

// Rectangle validation models
type RectValidationData struct {
	Input string        `json:"input" example:"1920x1080+0,0" doc:"Rectangle string that was checked"`
	Valid bool          `json:"valid" example:"true" doc:"Whether the string parses"`
	Rect  geometry.Rect `json:"rect,omitempty" doc:"Parsed rectangle, present when valid"`
	Error string        `json:"error,omitempty" doc:"Parse error message, present when invalid"`
}

type RectValidationResponse struct {
	Body RectValidationData
}

// Pipeline preview models
//
// ShareScreen is a pointer so an omitted field is distinguishable from
// screen index 0.
type PipelineRequestData struct {
	ListenPort  string `json:"listen_port,omitempty" example:"5000" doc:"Listen on this SRT port"`
	Call        string `json:"call,omitempty" example:"203.0.113.5:5000" doc:"Call a remote host:port"`
	View        bool   `json:"view,omitempty" doc:"View the remote screen"`
	ShareScreen *int   `json:"share_screen,omitempty" example:"0" doc:"Share a single screen by index"`
	ShareAll    bool   `json:"share_all,omitempty" doc:"Share all screens"`
	ShareRect   string `json:"share_rect,omitempty" example:"1920x1080+0,0" doc:"Share a custom rectangle"`
	Bitrate     int    `json:"bitrate,omitempty" example:"2048" doc:"Video bitrate in kbit/s"`
	LatencyMs   int    `json:"latency_ms,omitempty" example:"1000" doc:"SRT latency in milliseconds"`
	FPS         int    `json:"fps,omitempty" example:"30" doc:"Capture frame rate"`
	FEC         bool   `json:"fec,omitempty" doc:"Enable forward error correction"`
	Passphrase  string `json:"passphrase,omitempty" doc:"SRT encryption passphrase"`
}

// ToInput converts the request body to session inputs.
func (d PipelineRequestData) ToInput() session.Input {
	in := session.Input{
		ListenPort:  d.ListenPort,
		Call:        d.Call,
		View:        d.View,
		ShareScreen: session.NoScreen,
		ShareAll:    d.ShareAll,
		ShareRect:   d.ShareRect,
		Bitrate:     d.Bitrate,
		LatencyMs:   d.LatencyMs,
		FPS:         d.FPS,
		FEC:         d.FEC,
		Passphrase:  d.Passphrase,
	}
	if d.ShareScreen != nil {
		in.ShareScreen = *d.ShareScreen
	}
	return in
}

type PipelineRequest struct {
	Body PipelineRequestData
}

type PipelineData struct {
	Role    string   `json:"role" example:"listen" doc:"Resolved connection role"`
	Mode    string   `json:"mode" example:"screenshare" doc:"Resolved session mode"`
	URI     string   `json:"uri" example:"srt://:5000" doc:"Resolved SRT URI"`
	Stages  []string `json:"stages" doc:"Pipeline stages in order"`
	Command string   `json:"command" doc:"Full pipeline command line"`
	Wrapped string   `json:"wrapped" doc:"Command wrapped in the pinned nix-shell invocation"`
}

type PipelineResponse struct {
	Body PipelineData
}

// Log models
type LogEntryData struct {
	Timestamp  string         `json:"timestamp" doc:"Log timestamp in RFC3339Nano"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"gst" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured attributes"`
}

type LogsData struct {
	Entries []LogEntryData `json:"entries" doc:"Log entries in chronological order"`
	Count   int            `json:"count" example:"100" doc:"Number of entries returned"`
}

type LogsResponse struct {
	Body LogsData
}

// Preset models
type PresetData struct {
	Name      string        `json:"name" example:"office" doc:"Preset name"`
	Input     session.Input `json:"input" doc:"Saved session inputs"`
	CreatedAt string        `json:"created_at,omitempty" doc:"Creation timestamp"`
	UpdatedAt string        `json:"updated_at,omitempty" doc:"Last update timestamp"`
}

type PresetsData struct {
	Presets []PresetData `json:"presets" doc:"Saved presets sorted by name"`
	Count   int          `json:"count" example:"3" doc:"Number of presets"`
}

type PresetsResponse struct {
	Body PresetsData
}

type PresetResponse struct {
	Body PresetData
}
