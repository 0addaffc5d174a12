package ai

import "net/http"

const (
	// ClientHeaderName is the header we send to downstream LLM providers identifying star-shell.
	ClientHeaderName = "X-Star-Shell-Client"
	// ClientHeaderValue is the value star-shell uses when identifying itself to LLM providers.
	ClientHeaderValue = "star-shell"
)

// DefaultHTTPHeaders returns a copy of the standard headers for outbound LLM requests.
func DefaultHTTPHeaders() http.Header {
	h := make(http.Header)
	h.Add(ClientHeaderName, ClientHeaderValue)
	return h
}
