package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wisp-ai/wisp/pkg/audio"
	"github.com/wisp-ai/wisp/pkg/audio/portaudio"
	"github.com/wisp-ai/wisp/pkg/bridge"
	"github.com/wisp-ai/wisp/pkg/buffer"
	"github.com/wisp-ai/wisp/pkg/cli"
	"github.com/wisp-ai/wisp/pkg/jsontime"
	"github.com/wisp-ai/wisp/pkg/live"
	"github.com/wisp-ai/wisp/pkg/profile"
	"github.com/wisp-ai/wisp/pkg/recorder"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive realtime conversation.

Microphone audio streams upstream continuously; the spoken reply plays
through the speaker and text deltas print as they arrive. Typed input
is sent as a complete user turn.

Examples:
  wisp -c myctx chat
  wisp -c myctx chat --persona storyteller --trace
  wisp -c myctx chat --no-mic`,
	RunE: runChat,
}

var (
	chatModel    string
	chatPersona  string
	chatTier     string
	chatSampling time.Duration
	chatNoMic    bool
	chatTrace    bool
	chatFile     string
)

// chatRequest is the optional request-file form of the chat settings.
type chatRequest struct {
	Model            string             `yaml:"model,omitempty" json:"model,omitempty"`
	Persona          string             `yaml:"persona,omitempty" json:"persona,omitempty"`
	Tier             string             `yaml:"tier,omitempty" json:"tier,omitempty"`
	SamplingInterval *jsontime.Duration `yaml:"sampling_interval,omitempty" json:"sampling_interval,omitempty"`
}

const defaultModel = "models/gemini-2.0-flash-exp"

const (
	frameWidth  = 72
	frameHeight = 16
)

func init() {
	chatCmd.Flags().StringVar(&chatModel, "model", "", "Model to use (overrides context)")
	chatCmd.Flags().StringVar(&chatPersona, "persona", "", "Persona profile (overrides context)")
	chatCmd.Flags().StringVar(&chatTier, "tier", "", "Service tier (overrides context)")
	chatCmd.Flags().DurationVar(&chatSampling, "sampling-interval", 0, "Minimum spacing between forwarded audio chunks (overrides context)")
	chatCmd.Flags().BoolVar(&chatNoMic, "no-mic", false, "Text-only mode, no audio devices")
	chatCmd.Flags().BoolVar(&chatTrace, "trace", false, "Record the session to ~/.wisp/traces/")
	chatCmd.Flags().StringVarP(&chatFile, "file", "f", "", "Session settings file (YAML or JSON)")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfgCtx, err := getContext()
	if err != nil {
		return err
	}
	if cfgCtx.APIKey == "" {
		return fmt.Errorf("context %q has no API key", cfgCtx.Name)
	}

	// Precedence: flags > request file > context > defaults.
	var req chatRequest
	if chatFile != "" {
		if err := cli.LoadRequest(chatFile, &req); err != nil {
			return err
		}
	}
	model := firstNonEmpty(chatModel, req.Model, cfgCtx.Model, defaultModel)
	persona, err := profile.ParsePersona(firstNonEmpty(chatPersona, req.Persona, cfgCtx.Persona, string(profile.PersonaAssistant)))
	if err != nil {
		return err
	}
	tier, err := profile.ParseTier(firstNonEmpty(chatTier, req.Tier, cfgCtx.Tier, string(profile.TierFree)))
	if err != nil {
		return err
	}
	sampling := chatSampling
	if sampling <= 0 && req.SamplingInterval != nil {
		sampling = req.SamplingInterval.Duration()
	}
	if sampling <= 0 && cfgCtx.SamplingInterval != nil {
		sampling = cfgCtx.SamplingInterval.Duration()
	}

	printVerbose("Using context: %s", cfgCtx.Name)
	printVerbose("Model: %s, persona: %s, tier: %s", model, persona, tier)

	var opts []live.Option
	if cfgCtx.Endpoint != "" {
		opts = append(opts, live.WithEndpoint(cfgCtx.Endpoint))
	}
	client := live.NewClient(cfgCtx.APIKey, opts...)
	session := client.NewSession()

	// Audio is best effort: a missing device degrades to text-only
	// instead of refusing to start.
	var au *audio.Session
	if !chatNoMic {
		au = audio.NewSession(portaudio.New(), audio.Config{})
		caps, err := au.Initialize()
		if err != nil {
			cli.PrintWarning("Audio unavailable, continuing text-only: %v", err)
			au = nil
		} else {
			printVerbose("Audio buffers: in=%s out=%s",
				cli.FormatBytesInt(caps.InputBufferBytes),
				cli.FormatBytesInt(caps.OutputBufferBytes))
		}
	}
	var port bridge.AudioPort
	if au != nil {
		defer au.Close()
		port = au
	} else {
		port = newSilentPort()
	}

	bcfg := bridge.Config{SamplingInterval: sampling}
	var trace *recorder.Writer
	if chatTrace {
		paths, err := cli.NewPaths()
		if err != nil {
			return err
		}
		if err := paths.EnsureTraceDir(); err != nil {
			return err
		}
		tracePath := paths.TracePath(uuid.NewString() + ".trace")
		trace, err = recorder.Create(tracePath)
		if err != nil {
			return err
		}
		defer trace.Close()
		bcfg.Tap = traceTap{trace}
		cli.PrintInfo("Recording session to %s", tracePath)
	}

	coord := bridge.New(port, session, bcfg)

	states, cancelStates := session.State().Subscribe()
	defer cancelStates()
	go func() {
		for st := range states {
			printVerbose("Session state: %s", st)
		}
	}()

	connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := session.Connect(connectCtx, profile.Context(model, persona, tier)); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer session.Disconnect()

	if au != nil {
		if err := au.StartCapture(); err != nil {
			cli.PrintWarning("Capture failed, continuing text-only: %v", err)
		}
	}
	coord.Start()
	defer coord.Stop()

	transcript := cli.NewTranscript(200)
	start := time.Now()
	videoBytes := 0

	styles := cli.NewStyles(cli.DefaultTheme)
	frame := cli.Frame{
		Styles: styles,
		Title:  "wisp",
		Status: cfgCtx.Name,
		Sections: []cli.Section{
			{Label: "Session", Content: func() []string {
				audioState := "off"
				if au != nil {
					audioState = "live"
				}
				return []string{
					"model:   " + model,
					"persona: " + string(persona),
					"tier:    " + string(tier),
					"audio:   " + audioState,
				}
			}},
			{Label: "Transcript", Content: transcript.Lines},
		},
		Help: "type a message, /help for commands, /exit to quit",
	}
	fmt.Println(frame.Render(frameWidth, frameHeight))

	var auErrs <-chan error
	if au != nil {
		auErrs = au.Errors()
	}
	speakingCh, cancelSpeaking := coord.Speaking().Subscribe()
	defer cancelSpeaking()

	done := make(chan struct{})
	defer close(done)
	go func() {
		var reply strings.Builder
		flush := func() {
			if reply.Len() == 0 {
				return
			}
			fmt.Println()
			line := "assistant: " + reply.String()
			transcript.Add(line)
			if trace != nil {
				if err := trace.Text(line); err != nil {
					slog.Warn("trace: text write failed", "err", err)
				}
			}
			reply.Reset()
		}
		for {
			select {
			case <-done:
				return
			case text := <-coord.Text():
				if reply.Len() == 0 {
					fmt.Print("assistant: ")
				}
				fmt.Print(text)
				reply.WriteString(text)
			case speaking := <-speakingCh:
				if !speaking {
					flush()
				}
			case err := <-coord.Errors():
				cli.PrintError("%v", err)
			case err := <-auErrs:
				cli.PrintError("audio: %v", err)
			}
		}
	}()

	handleCommand := func(input string) bool {
		parts := strings.Fields(input)
		switch strings.ToLower(parts[0]) {
		case "/exit", "/quit":
			return true

		case "/video":
			if len(parts) < 2 {
				cli.PrintError("Usage: /video <file.jpg>")
				break
			}
			data, err := os.ReadFile(parts[1])
			if err != nil {
				cli.PrintError("Failed to read frame: %v", err)
				break
			}
			coord.SendVideoFrame(data)
			videoBytes += len(data)
			cli.PrintInfo("Sent %s video frame", cli.FormatBytesInt(len(data)))

		case "/level":
			if au == nil {
				cli.PrintInfo("Audio is off")
			} else {
				fmt.Printf("input level: %.2f\n", au.Level())
			}

		case "/mute":
			if au != nil {
				au.StopCapture()
				cli.PrintInfo("Microphone muted")
			}

		case "/unmute":
			if au != nil {
				if err := au.StartCapture(); err != nil {
					cli.PrintError("Failed to resume capture: %v", err)
				} else {
					cli.PrintInfo("Microphone live")
				}
			}

		case "/help":
			fmt.Println("Commands:")
			fmt.Println("  /video <file>  - Send a JPEG still frame")
			fmt.Println("  /level         - Show microphone input level")
			fmt.Println("  /mute, /unmute - Pause or resume capture")
			fmt.Println("  /exit, /quit   - End session")

		default:
			cli.PrintError("Unknown command: %s (try /help)", parts[0])
		}
		return false
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if handleCommand(input) {
				break
			}
			continue
		}

		line := "you: " + input
		transcript.Add(line)
		if trace != nil {
			if err := trace.Text(line); err != nil {
				slog.Warn("trace: text write failed", "err", err)
			}
		}
		coord.SendText(input)
	}

	frame.Status = "ended"
	fmt.Println(frame.Render(frameWidth, frameHeight))
	summary := fmt.Sprintf("Session ended after %s",
		cli.FormatDuration(int(time.Since(start).Milliseconds())))
	if videoBytes > 0 {
		summary += fmt.Sprintf(", %s of video sent", cli.FormatBytesInt(videoBytes))
	}
	cli.PrintInfo("%s", summary)
	return nil
}

// traceTap feeds coordinator traffic into a session trace.
type traceTap struct {
	w *recorder.Writer
}

func (t traceTap) Chunk(c audio.Chunk) {
	if err := t.w.Chunk(c); err != nil {
		slog.Warn("trace: chunk write failed", "err", err)
	}
}

func (t traceTap) Event(ev live.ServerEvent) {
	if err := t.w.Event(ev); err != nil {
		slog.Warn("trace: event write failed", "err", err)
	}
}

// silentPort stands in for the audio session in text-only mode: nothing
// is captured and inbound audio is discarded.
type silentPort struct {
	chunks *buffer.Ring[audio.Chunk]
}

func newSilentPort() silentPort {
	return silentPort{chunks: buffer.NewRing[audio.Chunk](1)}
}

func (p silentPort) Chunks() *buffer.Ring[audio.Chunk] { return p.chunks }

func (p silentPort) EnqueuePlayback([]byte) error { return nil }

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
