package linearapi

import "net/http"

// APIKeyTransport is an http.RoundTripper that adds the Linear API key to
// every request. Linear personal API keys are sent as a raw Authorization
// header value, without a Bearer prefix.
//
// This transport is used internally by NewClient and is also exported for
// consumers who need to build their own HTTP clients:
//
//	httpClient := &http.Client{
//	    Transport: &linearapi.APIKeyTransport{APIKey: key},
//	}
//	client := linearapi.NewClient(key, linearapi.WithHTTPClient(httpClient))
type APIKeyTransport struct {
	// APIKey is the Linear API key to send with each request.
	APIKey string

	// Transport is the underlying HTTP transport. If nil, http.DefaultTransport is used.
	Transport http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *APIKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	// Clone the request to avoid mutating the original
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", t.APIKey)

	return transport.RoundTrip(req)
}
