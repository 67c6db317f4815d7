// ABOUTME: Secure HTTP client configuration with timeouts
// ABOUTME: Shared by the optional Nevermined and Proxlock integrations

package http

import (
	"net/http"
	"time"
)

// SecureHTTPClient creates an HTTP client with conservative timeouts so a
// slow integration endpoint can never hang a wrap invocation.
func SecureHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
			IdleConnTimeout:       30 * time.Second,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
		},
	}
}
