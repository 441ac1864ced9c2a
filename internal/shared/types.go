package shared

// InferenceRequest is the inbound body for /query and /chat. Optional
// fields are pointers so that "omitted" is distinguishable from a zero
// value; Preprocess fills the defaults before any outbound call.
type InferenceRequest struct {
	Prompt      string   `json:"prompt"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// BackendPayload is the outbound wire shape sent to the inference backend.
type BackendPayload struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// BackendResponse is the backend's 2xx body. The generated text lives in
// the response field; anything else the backend sends is ignored.
type BackendResponse struct {
	Response string `json:"response"`
}

type QueryResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
