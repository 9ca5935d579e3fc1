package live

// EventType identifies a ServerEvent variant.
type EventType int

const (
	// EventSetupAck confirms the setup handshake. Content held back while
	// the acknowledgment was outstanding is flushed when this arrives.
	EventSetupAck EventType = iota

	// EventTextDelta carries partial text within the current turn.
	EventTextDelta

	// EventAudioDelta carries raw PCM samples within the current turn.
	EventAudioDelta

	// EventTurnComplete ends the current model turn.
	EventTurnComplete

	// EventError carries a server-reported or transport error.
	EventError

	// EventSessionEnded reports a clean close of the connection.
	EventSessionEnded
)

// String returns a human-readable event type name.
func (t EventType) String() string {
	switch t {
	case EventSetupAck:
		return "setupAck"
	case EventTextDelta:
		return "textDelta"
	case EventAudioDelta:
		return "audioDelta"
	case EventTurnComplete:
		return "turnComplete"
	case EventError:
		return "error"
	case EventSessionEnded:
		return "sessionEnded"
	}
	return "unknown"
}

// ServerEvent is one decoded inbound frame. Exactly one variant applies;
// an AudioDelta may also carry the text that arrived in the same turn.
type ServerEvent struct {
	Type  EventType
	Text  string
	Audio []byte
	Err   error
}
