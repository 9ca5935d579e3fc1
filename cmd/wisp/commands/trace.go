package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wisp-ai/wisp/pkg/cli"
	"github.com/wisp-ai/wisp/pkg/recorder"
)

var traceCmd = &cobra.Command{
	Use:   "trace <file>",
	Short: "Inspect a recorded session trace",
	Long: `Summarize a session trace recorded with 'chat --trace': entry
counts, audio volume, and the text exchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := recorder.Open(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		var (
			chunks     int
			events     int
			audioBytes int
			texts      []string
		)
		for {
			e, err := r.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			switch e.Kind {
			case recorder.KindChunk:
				chunks++
				audioBytes += len(e.Data)
			case recorder.KindEvent:
				events++
				audioBytes += len(e.Data)
				if e.Text != "" {
					texts = append(texts, fmt.Sprintf("[%s] %s", e.Event, e.Text))
				}
			case recorder.KindText:
				texts = append(texts, e.Text)
			}
		}

		summary := struct {
			Chunks     int      `yaml:"chunks" json:"chunks"`
			Events     int      `yaml:"events" json:"events"`
			AudioBytes string   `yaml:"audio_bytes" json:"audio_bytes"`
			Text       []string `yaml:"text,omitempty" json:"text,omitempty"`
		}{
			Chunks:     chunks,
			Events:     events,
			AudioBytes: cli.FormatBytesInt(audioBytes),
			Text:       texts,
		}
		return outputResult(summary, isJSONOutput())
	},
}
