// Package gst assembles gst-launch pipeline invocations from session
// parameters.
package gst

import (
	"fmt"
	"strings"
)

// Base returns the gstreamer launcher binary name.
func Base() string {
	return "gst-launch-1.0"
}

// BuildPipeline builds the ordered stage strings for the given
// parameters. It is a pure function of Params: identical input yields a
// byte-identical stage sequence.
func BuildPipeline(p *Params) []string {
	if p.View {
		return buildViewPipeline(p)
	}
	return buildCapturePipeline(p)
}

// buildCapturePipeline emits the screenshare pipeline: capture the
// rectangle, encode H.264 tuned for low latency, mux into MPEG-TS and
// push over SRT.
func buildCapturePipeline(p *Params) []string {
	return []string{
		fmt.Sprintf("ximagesrc startx=%d endx=%d starty=%d endy=%d show-pointer=true use-damage=0",
			p.Rect.X, p.Rect.EndX(), p.Rect.Y, p.Rect.EndY()),
		"queue",
		"videoconvert",
		"clockoverlay",
		fmt.Sprintf("x264enc tune=zerolatency speed-preset=fast bitrate=%d threads=1 byte-stream=true key-int-max=60 intra-refresh=true",
			p.Bitrate),
		fmt.Sprintf("video/x-h264, profile=baseline, framerate=%d/1", p.FPS),
		"mpegtsmux",
		"queue",
		sinkStage(p),
	}
}

// buildViewPipeline emits the receive pipeline: pull MPEG-TS over SRT,
// demux, decode and display without clock sync blocking.
func buildViewPipeline(p *Params) []string {
	return []string{
		sourceStage(p),
		"queue",
		"tsdemux",
		"h264parse",
		"video/x-h264",
		"avdec_h264",
		"autovideosink sync=false",
	}
}

// sinkStage builds the srtsink stage. FEC and passphrase parameters are
// appended only when set; an unset option leaves no token behind.
func sinkStage(p *Params) string {
	var sink strings.Builder
	fmt.Fprintf(&sink, "srtsink uri=%s latency=%d", p.URI, p.LatencyMs)

	if p.FEC {
		sink.WriteString(" packetfilter=fec,cols:3,rows:-3,layout:staircase,arq:always")
	}
	if p.Passphrase != "" {
		sink.WriteString(" passphrase=" + p.Passphrase)
	}

	return sink.String()
}

// sourceStage builds the srtsrc stage, with the same omission rule as
// sinkStage.
func sourceStage(p *Params) string {
	var src strings.Builder
	src.WriteString("srtsrc uri=" + p.URI)

	if p.FEC {
		src.WriteString(" packetfilter=fec")
	}
	if p.Passphrase != "" {
		src.WriteString(" passphrase=" + p.Passphrase)
	}

	return src.String()
}

// Command joins the pipeline stages into the full gst-launch
// invocation.
func Command(p *Params) string {
	return Base() + " " + strings.Join(BuildPipeline(p), " ! ")
}
