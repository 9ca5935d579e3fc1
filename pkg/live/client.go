package live

import "time"

// DefaultEndpoint is the default streaming endpoint.
const DefaultEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1alpha.GenerativeService.BidiGenerateContent"

const (
	defaultHandshakeTimeout = 15 * time.Second
	defaultEventBuffer      = 100
	defaultPendingLimit     = 16
)

// Client holds credentials and connection defaults for streaming sessions.
type Client struct {
	config *clientConfig
}

// clientConfig holds the client configuration.
type clientConfig struct {
	apiKey           string
	endpoint         string
	handshakeTimeout time.Duration
	eventBuffer      int
	pendingLimit     int
}

// Option configures the Client.
type Option func(*clientConfig)

// NewClient creates a new streaming client.
//
// The apiKey is required; it is passed as a query parameter on the
// connection URL.
func NewClient(apiKey string, opts ...Option) *Client {
	if apiKey == "" {
		panic("live: API key is required")
	}

	cfg := &clientConfig{
		apiKey:           apiKey,
		endpoint:         DefaultEndpoint,
		handshakeTimeout: defaultHandshakeTimeout,
		eventBuffer:      defaultEventBuffer,
		pendingLimit:     defaultPendingLimit,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{config: cfg}
}

// WithEndpoint sets the WebSocket endpoint URL.
func WithEndpoint(url string) Option {
	return func(c *clientConfig) {
		c.endpoint = url
	}
}

// WithHandshakeTimeout sets the transport connect timeout.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		if d > 0 {
			c.handshakeTimeout = d
		}
	}
}

// WithEventBuffer sets the capacity of the inbound event channel.
func WithEventBuffer(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.eventBuffer = n
		}
	}
}

// WithPendingLimit bounds how many content frames may be held while the
// setup acknowledgment is outstanding. Beyond the bound the oldest held
// frame is dropped with a logged warning.
func WithPendingLimit(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.pendingLimit = n
		}
	}
}

// NewSession creates a disconnected Session using this client's
// credentials and defaults.
func (c *Client) NewSession() *Session {
	return newSession(c.config)
}
