package httpserver

import (
	"net/http"
	"time"
)

// New returns the service's HTTP server. Timeouts are generous on the write
// side because signature uploads proxy image payloads to the storage
// collaborator within the request.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
