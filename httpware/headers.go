package httpware

import (
	"context"

	"github.com/flumeio/flume"
)

// DefaultHeaders sets request headers that are not already present. It is
// a plain value type: construct one per client configuration rather than
// sharing a process-wide instance.
type DefaultHeaders map[string]string

// Inject implements flume.Middleware. The attached step is an
// interceptor: it cannot abort the chain.
func (h DefaultHeaders) Inject(p *flume.Pipeline[*Call]) {
	p.Intercept(func(_ context.Context, call *Call) {
		for key, value := range h {
			if call.Request.Header.Get(key) == "" {
				call.Request.Header.Set(key, value)
			}
		}
	})
}
