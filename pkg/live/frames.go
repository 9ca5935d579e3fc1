package live

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/wisp-ai/wisp/pkg/encoding"
)

// Wire types. Every message is a JSON text frame with exactly one of the
// top-level fields set; binary payloads travel base64-encoded inside
// inlineData / mediaChunks blobs.

type clientFrame struct {
	Setup         *setupConfig   `json:"setup,omitempty"`
	ClientContent *clientContent `json:"clientContent,omitempty"`
	RealtimeInput *realtimeInput `json:"realtimeInput,omitempty"`
}

type setupConfig struct {
	Model             string            `json:"model"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
	SystemInstruction *turnContent      `json:"systemInstruction,omitempty"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type turnContent struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string     `json:"text,omitempty"`
	InlineData *mediaBlob `json:"inlineData,omitempty"`
}

type mediaBlob struct {
	MimeType string              `json:"mimeType"`
	Data     encoding.Base64Data `json:"data"`
}

type clientContent struct {
	Turns        []turnContent `json:"turns"`
	TurnComplete bool          `json:"turnComplete"`
}

type realtimeInput struct {
	MediaChunks []mediaBlob `json:"mediaChunks"`
}

type serverFrame struct {
	SetupComplete json.RawMessage `json:"setupComplete,omitempty"`
	ServerContent *serverContent  `json:"serverContent,omitempty"`
	TurnComplete  *bool           `json:"turnComplete,omitempty"`
	Error         *FrameError     `json:"error,omitempty"`
}

type serverContent struct {
	ModelTurn *turnContent `json:"modelTurn,omitempty"`
}

var errUnknownFrame = errors.New("live: unrecognized frame")

// decodeFrame parses one inbound frame into exactly one ServerEvent.
func decodeFrame(msg []byte) (ServerEvent, error) {
	var frame serverFrame
	if err := json.Unmarshal(msg, &frame); err != nil {
		return ServerEvent{}, err
	}

	switch {
	case frame.Error != nil:
		return ServerEvent{Type: EventError, Err: frame.Error}, nil
	case len(frame.SetupComplete) > 0:
		return ServerEvent{Type: EventSetupAck}, nil
	case frame.TurnComplete != nil:
		return ServerEvent{Type: EventTurnComplete}, nil
	case frame.ServerContent != nil:
		return decodeContent(frame.ServerContent)
	}
	return ServerEvent{}, errUnknownFrame
}

// decodeContent flattens a model turn into one content event. Audio parts
// dominate: a turn carrying inline audio becomes an AudioDelta and keeps
// any accompanying text, otherwise the concatenated text becomes a
// TextDelta.
func decodeContent(sc *serverContent) (ServerEvent, error) {
	if sc.ModelTurn == nil {
		return ServerEvent{}, errors.New("live: serverContent without modelTurn")
	}

	var text strings.Builder
	var audio []byte
	for _, p := range sc.ModelTurn.Parts {
		text.WriteString(p.Text)
		if p.InlineData != nil && strings.HasPrefix(p.InlineData.MimeType, "audio/pcm") {
			audio = append(audio, p.InlineData.Data...)
		}
	}

	if len(audio) > 0 {
		return ServerEvent{Type: EventAudioDelta, Audio: audio, Text: text.String()}, nil
	}
	if text.Len() > 0 {
		return ServerEvent{Type: EventTextDelta, Text: text.String()}, nil
	}
	return ServerEvent{}, errors.New("live: empty model turn")
}
