package httpware

import (
	"context"
	"net/http"
	"testing"

	"github.com/flumeio/flume"
)

func TestDefaultHeaders(t *testing.T) {
	t.Run("Fills Only Missing Headers", func(t *testing.T) {
		defaults := DefaultHeaders{
			"User-Agent": "flume/1",
			"Accept":     "application/json",
		}

		pipeline := flume.NewPipeline[*Call]("defaults")
		pipeline.Inject(defaults)

		call := NewCall(http.MethodGet, "http://example.test/")
		call.Request.Header.Set("Accept", "text/html")
		if err := pipeline.Run(context.Background(), call); err != nil {
			t.Fatalf("Run: %v", err)
		}

		if got := call.Request.Header.Get("User-Agent"); got != "flume/1" {
			t.Errorf("User-Agent = %q, want the default applied", got)
		}
		if got := call.Request.Header.Get("Accept"); got != "text/html" {
			t.Errorf("Accept = %q, an explicit header must win", got)
		}
	})

	t.Run("Cannot Abort The Chain", func(t *testing.T) {
		pipeline := flume.NewPipeline[*Call]("defaults")
		pipeline.Inject(DefaultHeaders{"X-Trace": "on"})
		pipeline.Use(func(_ context.Context, call *Call, next flume.Next[*Call]) {
			// Downstream of the interceptor: the default is visible here.
			if call.Request.Header.Get("X-Trace") != "on" {
				t.Error("default header not visible downstream")
			}
			next(nil)
		})

		if err := pipeline.Run(context.Background(), NewCall(http.MethodGet, "http://example.test/")); err != nil {
			t.Fatalf("Run: %v", err)
		}
	})

	t.Run("Empty Set Is A No-Op", func(t *testing.T) {
		pipeline := flume.NewPipeline[*Call]("defaults")
		pipeline.Inject(DefaultHeaders{})

		call := NewCall(http.MethodGet, "http://example.test/")
		if err := pipeline.Run(context.Background(), call); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(call.Request.Header) != 0 {
			t.Errorf("header = %v, want empty", call.Request.Header)
		}
	})
}
