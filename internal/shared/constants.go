package shared

import "time"

// Service identity returned by the health endpoints.
const (
	ServiceName    = "OceanGPT Frontend API"
	ServiceVersion = "1.0.0"
)

// Endpoint labels used for logs and metrics.
const (
	EndpointQuery = "query"
	EndpointChat  = "chat"
)

// HTTP Client Configuration
const (
	// DefaultBackendTimeout bounds a single inference call. The backend
	// scales from zero and cold starts can take minutes.
	DefaultBackendTimeout  = 120 * time.Second
	DefaultDialTimeout     = 2 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Inference Defaults
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	MinTemperature     = 0.0
	MaxTemperature     = 2.0
)

// DefaultChatTemplate wraps a raw prompt as one turn of a conversation.
// The single %s slot receives the user prompt.
const DefaultChatTemplate = "You are OceanGPT, a marine science expert. Please answer the following question about marine science or ocean-related topics:\n\nQuestion: %s\n\nAnswer:"

// Caller-facing failure messages. The timeout message is part of the
// external contract and is matched verbatim by frontends.
const (
	MsgTimeout           = "Request timeout - the AI model is taking too long to respond"
	MsgConnectionFailure = "Failed to connect to AI model: "
	MsgInternalError     = "Internal server error: "
)

// MaxLoggedBodyLen truncates backend response bodies in logs and error
// details so a misbehaving backend cannot flood the log stream.
const MaxLoggedBodyLen = 1000
