package httpware

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/flumeio/flume"
)

// Transport is the middleware that performs the actual HTTP exchange. It
// is the single seam where an HTTP engine plugs into a pipeline: the
// exchange runs on its own goroutine and continues the chain from
// whatever goroutine the response arrives on, with a nil error on success
// or the transport error on failure.
//
// A Transport may be injected into many pipelines; the underlying client
// and its connection pool are shared across all of them. The stored pipe
// value is created once, so repeated injection appends the same function
// value; the framework itself does not deduplicate.
type Transport struct {
	client *http.Client
	pipe   flume.Pipe[*Call]
}

// NewTransport creates a Transport over client. A nil client uses
// http.DefaultClient.
func NewTransport(client *http.Client) *Transport {
	if client == nil {
		client = http.DefaultClient
	}
	t := &Transport{client: client}
	t.pipe = t.exchange
	return t
}

// Inject implements flume.Middleware.
func (t *Transport) Inject(p *flume.Pipeline[*Call]) {
	p.Use(t.pipe)
}

// Pipe returns the exchange pipe for direct composition, e.g. inside a
// flume.Timeout or flume.Retry wrapper.
func (t *Transport) Pipe() flume.Pipe[*Call] {
	return t.pipe
}

func (t *Transport) exchange(ctx context.Context, call *Call, next flume.Next[*Call]) {
	go func() {
		var body io.Reader
		if len(call.Request.Body) > 0 {
			body = bytes.NewReader(call.Request.Body)
		}

		req, err := http.NewRequestWithContext(ctx, call.Request.Method, call.Request.URL, body)
		if err != nil {
			next(err)
			return
		}
		for key, values := range call.Request.Header {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}

		resp, err := t.client.Do(req)
		if err != nil {
			next(err)
			return
		}
		defer resp.Body.Close() //nolint:errcheck

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			next(err)
			return
		}

		call.Response.StatusCode = resp.StatusCode
		call.Response.Header = resp.Header
		call.Response.Body = data
		next(nil)
	}()
}
