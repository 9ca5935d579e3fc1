// Package live implements the bidirectional streaming protocol used to
// talk to the conversational service: a persistent WebSocket carrying
// JSON frames, with binary audio and video payloads base64-encoded inline.
//
// # Connecting
//
// A Session is created disconnected and opened with a SessionContext:
//
//	client := live.NewClient(apiKey)
//	session := client.NewSession()
//	err := session.Connect(ctx, live.SessionContext{
//	    Model:       "models/wisp-live",
//	    Instruction: persona.Instruction(),
//	})
//	if err != nil {
//	    return err
//	}
//	defer session.Disconnect()
//
// Connect sends exactly one setup frame per connection. Content sent
// before the server acknowledges the setup is held in a small bounded
// buffer and flushed in order once the acknowledgment arrives.
//
// # Receiving Events
//
// Inbound frames are decoded into ServerEvents and delivered in arrival
// order:
//
//	for ev := range session.Events() {
//	    switch ev.Type {
//	    case live.EventAudioDelta:
//	        playAudio(ev.Audio)
//	    case live.EventTextDelta:
//	        fmt.Print(ev.Text)
//	    case live.EventTurnComplete:
//	        fmt.Println()
//	    }
//	}
//
// Malformed frames are logged and dropped without ending the stream. The
// session never reconnects on its own: after a transport failure it stays
// in StateError until the caller connects again.
package live
