package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/srtcast/srtcast/internal/config"
	"github.com/srtcast/srtcast/internal/display"
	"github.com/srtcast/srtcast/internal/events"
	"github.com/srtcast/srtcast/internal/gst"
	"github.com/srtcast/srtcast/internal/logging"
	"github.com/srtcast/srtcast/internal/metrics"
	"github.com/srtcast/srtcast/internal/metrics/exporters"
	"github.com/srtcast/srtcast/internal/process"
	"github.com/srtcast/srtcast/internal/session"
)

// runFlags collects the raw flag values before resolution.
type runFlags struct {
	listenPort string
	call       string
	view       bool
	shareAll   bool
	shareRect  string
	bitrate    int
	latency    int
	fps        int
	fec        bool
	passphrase string

	// one entry per enumerated display, indexed by display index
	shareScreen []bool
}

// CreateRunCmd creates the run command: resolve the session from flags,
// build the pipeline and supervise the child process.
func CreateRunCmd() *cobra.Command {
	var configFile string
	var presetsFile string
	var presetName string
	var savePreset string
	var printCommand bool
	var noWatch bool
	var logJSON bool
	flags := &runFlags{}

	// Per-screen flags mirror the current display layout. On headless
	// hosts none are registered and only --screenshare-rectangle,
	// --screenshare-all and --view remain usable.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	displays, displaysErr := display.Enumerate(ctx)
	cancel()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a screen sharing session",
		Long: `Resolves the session configuration from flags, builds the pipeline ` +
			`command and runs it inside the pinned nix-shell environment. ` +
			`Exactly one connection option and one mode option must be given.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			loggingConfig := logging.Config{
				Level:  "info",
				Format: "text",
			}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("session")

			defaults, err := config.LoadDefaults(configFile)
			if err != nil {
				logger.Warn("Failed to load config, using built-in defaults", "error", err)
				defaults = session.BuiltinDefaults()
			}

			in := flags.toInput(cmd, displays)

			// Presets supply a base that explicit flags override.
			if presetName != "" {
				presets := config.NewPresetManager(presetsFile)
				if err := presets.Load(); err != nil {
					logger.Error("Failed to load presets", "error", err)
					os.Exit(1)
				}
				preset, ok := presets.Get(presetName)
				if !ok {
					logger.Error("Preset not found", "preset", presetName)
					os.Exit(1)
				}
				in = mergePreset(cmd, preset.Input, in)
			}

			in = session.ApplyDefaults(in, defaults)

			if savePreset != "" {
				presets := config.NewPresetManager(presetsFile)
				if err := presets.Load(); err != nil {
					logger.Warn("Failed to load presets", "error", err)
				}
				if err := presets.Set(savePreset, in); err != nil {
					logger.Warn("Failed to save preset", "preset", savePreset, "error", err)
				} else {
					logger.Info("Preset saved", "preset", savePreset)
				}
			}

			resolver := session.DefaultResolver()
			cfg, err := resolver.Resolve(cmd.Context(), in)
			if err != nil {
				logger.Error("Session resolution failed", "error", err)
				os.Exit(1)
			}

			params := gst.FromConfig(cfg)
			pipelineCmd := gst.Command(params)
			wrapped := gst.NixShellCommand(pipelineCmd)

			metrics.RecordPipelineBuilt(string(cfg.Mode))

			// Echo a reproducible invocation, like the form does, so a
			// session configured interactively can be scripted later.
			fmt.Println("Your CLI flags (for scripting):")
			fmt.Println("  " + os.Args[0] + " run " + flagEcho(in))
			fmt.Println("Your gstreamer invocation:")
			fmt.Println("  " + pipelineCmd)

			if printCommand {
				fmt.Println(wrapped)
				return
			}

			metrics.RecordSessionRun(string(cfg.Mode))

			// Session state flows over the bus so the metrics recorder
			// counts restarts the same way serve mode does.
			bus := events.New()
			recorder := exporters.NewBusRecorder(bus)

			proc := process.NewProcess("session", wrapped, logger)
			proc.SetLogParser(logging.GetLogger("gst"), gst.ParseLogLevel)
			proc.SetStateNotifier(func(state string, exitCode int) {
				bus.Publish(events.SessionStateEvent{
					State:     state,
					ExitCode:  exitCode,
					Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
				})
			})

			if !noWatch {
				watcher := config.NewConfigWatcher(
					configFile,
					config.LoadDefaults,
					logger,
					config.WithDebounce[session.Defaults](1500*time.Millisecond),
				)

				watcher.OnReload(func(fresh session.Defaults) {
					newIn := session.ApplyDefaults(flags.toInput(cmd, displays), fresh)
					newCfg, err := resolver.Resolve(context.Background(), newIn)
					if err != nil {
						logger.Warn("Config change produced invalid session, keeping current", "error", err)
						return
					}
					newWrapped := gst.NixShellCommand(gst.Command(gst.FromConfig(newCfg)))
					if newWrapped != proc.GetCommand() {
						logger.Info("Defaults changed, requesting restart")
						proc.RequestRestart(newWrapped)
					} else {
						logger.Debug("Config reloaded, command unchanged")
					}
				})

				if err := watcher.Start(); err != nil {
					logger.Warn("Failed to start config watcher, hot-reload disabled", "error", err)
				} else {
					defer func() { _ = watcher.Stop() }()
				}
			}

			exitCode := proc.RunWithRestart()
			if exitCode != 0 {
				sessErr := session.NewSessionError(session.ErrCodeProcessFailed,
					fmt.Sprintf("pipeline process exited with code %d", exitCode), nil)
				logger.Error("Session failed", "error", sessErr)
			} else {
				logger.Info("Session finished", "exit_code", exitCode)
			}
			recorder.Stop()
			os.Exit(exitCode)
		},
	}

	cmd.Flags().StringVar(&flags.listenPort, session.OptListenPort, "",
		"Listen on this SRT port for an incoming connection")
	cmd.Flags().StringVar(&flags.call, session.OptCall, "",
		"Call a listening host (host:port)")
	cmd.Flags().BoolVar(&flags.view, session.OptView, false,
		"View the remote screen")
	cmd.Flags().BoolVar(&flags.shareAll, session.OptShareAll, false,
		"Share all screens as one canvas")
	cmd.Flags().StringVar(&flags.shareRect, session.OptShareRect, "",
		"Share a custom rectangle ("+gstRectFormatHelp()+")")

	if displaysErr == nil {
		flags.shareScreen = make([]bool, len(displays))
		for i, d := range displays {
			idx := d.Index
			cmd.Flags().BoolVar(&flags.shareScreen[i], session.ShareScreenOption(idx),
				false, fmt.Sprintf("Share screen %d (%s, %s)", idx, d.Output, d.Rect))
		}
	}

	cmd.Flags().IntVar(&flags.bitrate, session.OptBitrate, 0,
		"Video bitrate in kbit/s (default 2048, or the config file value)")
	cmd.Flags().IntVar(&flags.latency, session.OptLatency, 0,
		"SRT latency in milliseconds (default 1000, or the config file value)")
	cmd.Flags().IntVar(&flags.fps, session.OptFPS, 0,
		"Capture frame rate (default 30, or the config file value)")
	cmd.Flags().BoolVar(&flags.fec, session.OptFEC, false,
		"Enable forward error correction")
	cmd.Flags().StringVar(&flags.passphrase, session.OptPassphrase, "",
		"SRT encryption passphrase (min 10 characters, empty disables encryption)")

	cmd.Flags().BoolVar(&printCommand, session.OptPrintCmd, false,
		"Print the full command instead of running it")
	cmd.Flags().StringVar(&configFile, "config", "srtcast.toml", "Path to configuration file")
	cmd.Flags().StringVar(&presetsFile, "presets", "presets.toml", "Path to presets file")
	cmd.Flags().StringVar(&presetName, "preset", "", "Start from a saved preset")
	cmd.Flags().StringVar(&savePreset, "save-preset", "", "Save the session inputs under this preset name")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Disable config hot-reload")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Use JSON log format")

	return cmd
}

func gstRectFormatHelp() string {
	return "WIDTHxHEIGHT+X,Y"
}

// toInput converts parsed flags into session inputs.
func (f *runFlags) toInput(_ *cobra.Command, displays []display.Geometry) session.Input {
	in := session.Input{
		ListenPort:  f.listenPort,
		Call:        f.call,
		View:        f.view,
		ShareScreen: session.NoScreen,
		ShareAll:    f.shareAll,
		ShareRect:   f.shareRect,
		Bitrate:     f.bitrate,
		LatencyMs:   f.latency,
		FPS:         f.fps,
		FEC:         f.fec,
		Passphrase:  f.passphrase,
	}
	for i, selected := range f.shareScreen {
		if selected && i < len(displays) {
			in.ShareScreen = displays[i].Index
			break
		}
	}
	return in
}

// mergePreset overlays explicitly set flags on top of a preset.
func mergePreset(cmd *cobra.Command, base, overlay session.Input) session.Input {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }

	if changed(session.OptListenPort) {
		base.ListenPort = overlay.ListenPort
	}
	if changed(session.OptCall) {
		base.Call = overlay.Call
	}
	if changed(session.OptView) {
		base.View = overlay.View
	}
	if overlay.ShareScreen != session.NoScreen {
		base.ShareScreen = overlay.ShareScreen
	}
	if changed(session.OptShareAll) {
		base.ShareAll = overlay.ShareAll
	}
	if changed(session.OptShareRect) {
		base.ShareRect = overlay.ShareRect
	}
	if changed(session.OptBitrate) {
		base.Bitrate = overlay.Bitrate
	}
	if changed(session.OptLatency) {
		base.LatencyMs = overlay.LatencyMs
	}
	if changed(session.OptFPS) {
		base.FPS = overlay.FPS
	}
	if changed(session.OptFEC) {
		base.FEC = overlay.FEC
	}
	if changed(session.OptPassphrase) {
		base.Passphrase = overlay.Passphrase
	}
	return base
}

// flagEcho reconstructs the flag string for the resolved inputs. The
// print-command flag is intentionally left out so the echoed line runs
// the session rather than printing it again.
func flagEcho(in session.Input) string {
	var b strings.Builder

	appendFlag := func(name, value string) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("--")
		b.WriteString(name)
		if value != "" {
			b.WriteByte(' ')
			b.WriteString(value)
		}
	}

	if in.ListenPort != "" {
		appendFlag(session.OptListenPort, in.ListenPort)
	}
	if in.Call != "" {
		appendFlag(session.OptCall, in.Call)
	}
	if in.View {
		appendFlag(session.OptView, "")
	}
	if in.ShareScreen != session.NoScreen {
		appendFlag(session.ShareScreenOption(in.ShareScreen), "")
	}
	if in.ShareAll {
		appendFlag(session.OptShareAll, "")
	}
	if in.ShareRect != "" {
		appendFlag(session.OptShareRect, in.ShareRect)
	}

	appendFlag(session.OptBitrate, fmt.Sprintf("%d", in.Bitrate))
	appendFlag(session.OptLatency, fmt.Sprintf("%d", in.LatencyMs))
	appendFlag(session.OptFPS, fmt.Sprintf("%d", in.FPS))
	if in.FEC {
		appendFlag(session.OptFEC, "")
	}
	if in.Passphrase != "" {
		appendFlag(session.OptPassphrase, in.Passphrase)
	}

	return b.String()
}
