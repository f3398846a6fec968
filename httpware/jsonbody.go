package httpware

import (
	"bytes"
	"context"
	"regexp"

	"github.com/flumeio/flume"
	"github.com/flumeio/flume/jsontree"
)

// jsonMediaType matches JSON-family media types case-insensitively:
// application/json, text/json, and any +json structured suffix.
var jsonMediaType = regexp.MustCompile(`(?i)^\s*(?:application|text)/(?:[a-z0-9.^_!#$&-]+\+)?json\s*(?:;|$)`)

// JSONBody decodes a response body into a jsontree element when the
// response content type is a JSON-family media type. Non-JSON responses
// pass through untouched. A malformed body aborts the chain with the
// tokenizer's positioned syntax error.
//
// JSONBody should be injected after the Transport so it sees the filled
// response.
type JSONBody struct{}

// Inject implements flume.Middleware.
func (JSONBody) Inject(p *flume.Pipeline[*Call]) {
	p.Use(decodeJSONBody)
}

func decodeJSONBody(_ context.Context, call *Call, next flume.Next[*Call]) {
	contentType := ""
	if call.Response.Header != nil {
		contentType = call.Response.Header.Get("Content-Type")
	}
	if !jsonMediaType.MatchString(contentType) {
		next(nil)
		return
	}

	element, err := jsontree.Parse(bytes.NewReader(call.Response.Body))
	if err != nil {
		next(err)
		return
	}
	call.Response.JSON = element
	next(nil)
}
