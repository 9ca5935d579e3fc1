package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wisp-ai/wisp/pkg/audio/portaudio"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio devices",
	Long: `List the audio devices the system exposes, marking the defaults
the chat command will use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := portaudio.Devices()
		if err != nil {
			return fmt.Errorf("failed to enumerate audio devices: %w", err)
		}

		type deviceView struct {
			Index         int     `yaml:"index" json:"index"`
			Name          string  `yaml:"name" json:"name"`
			Inputs        int     `yaml:"inputs" json:"inputs"`
			Outputs       int     `yaml:"outputs" json:"outputs"`
			SampleRate    float64 `yaml:"sample_rate" json:"sample_rate"`
			DefaultInput  bool    `yaml:"default_input,omitempty" json:"default_input,omitempty"`
			DefaultOutput bool    `yaml:"default_output,omitempty" json:"default_output,omitempty"`
		}

		views := make([]deviceView, 0, len(devices))
		for _, d := range devices {
			views = append(views, deviceView{
				Index:         d.Index,
				Name:          d.Name,
				Inputs:        d.MaxInputChannels,
				Outputs:       d.MaxOutputChannels,
				SampleRate:    d.DefaultSampleRate,
				DefaultInput:  d.IsDefaultInput,
				DefaultOutput: d.IsDefaultOutput,
			})
		}
		return outputResult(views, isJSONOutput())
	},
}
