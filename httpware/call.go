// Package httpware supplies the HTTP seam around the flume pipeline core:
// the Call value carried through a client pipeline, a transport middleware
// that performs the actual exchange, a default-header interceptor, and a
// JSON body middleware that decodes responses into jsontree elements.
//
// The pipeline engine never inspects a Call; everything in this package is
// attached through middleware injection at configuration time.
package httpware

import (
	"net/http"

	"github.com/flumeio/flume/jsontree"
)

// Request is the outgoing half of a Call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the incoming half of a Call, filled in by the transport.
// JSON is set by the JSON body middleware when the content type matches a
// JSON-family media type.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	JSON       jsontree.Element
}

// Call is the parameter type a client pipeline carries. Pipes mutate it
// in place; the engine passes it through opaquely.
type Call struct {
	Request  Request
	Response Response
}

// NewCall creates a Call for the given method and URL with an empty
// header map.
func NewCall(method, url string) *Call {
	return &Call{
		Request: Request{
			Method: method,
			URL:    url,
			Header: make(http.Header),
		},
	}
}
