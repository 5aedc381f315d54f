package openai

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/tidwall/sjson"

	"github.com/inercia/go-llm-heuristics/pkg/llm"
)

// reservedFields are body fields owned by the typed request; extras never overwrite them
var reservedFields = map[string]bool{
	"model":       true,
	"messages":    true,
	"stream":      true,
	"temperature": true,
	"max_tokens":  true,
}

type bodyExtrasKey struct{}

// bodyExtras are fields go-openai has no typed slot for
type bodyExtras struct {
	files  []llm.FileRef
	fields map[string]any
}

func withBodyExtras(ctx context.Context, req llm.ChatRequest) context.Context {
	if len(req.Files) == 0 && len(req.Extra) == 0 {
		return ctx
	}
	return context.WithValue(ctx, bodyExtrasKey{}, &bodyExtras{files: req.Files, fields: req.Extra})
}

// apply writes the extras into a JSON request body
func (e *bodyExtras) apply(body []byte) ([]byte, error) {
	var err error
	if len(e.files) > 0 {
		if body, err = sjson.SetBytes(body, "files", e.files); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		if !reservedFields[k] && k != "files" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		if body, err = sjson.SetBytes(body, escapePath(k), e.fields[k]); err != nil {
			return nil, err
		}
	}
	return body, nil
}

var pathEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`)

func escapePath(key string) string {
	return pathEscaper.Replace(key)
}

// transport adapts outbound requests before they reach the wire: it drops the
// Authorization header for unauthenticated backends, pins "stream": false on chat
// completions and injects body extras carried by the request context.
type transport struct {
	base      openai.HTTPDoer
	authToken string
}

func (t *transport) Do(req *http.Request) (*http.Response, error) {
	if t.authToken == "" {
		req.Header.Del("Authorization")
	}

	if req.Method != http.MethodPost || req.Body == nil || !strings.HasSuffix(req.URL.Path, "/chat/completions") {
		return t.base.Do(req)
	}

	body, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, err
	}

	if body, err = sjson.SetBytes(body, "stream", false); err != nil {
		return nil, err
	}
	if extras, ok := req.Context().Value(bodyExtrasKey{}).(*bodyExtras); ok {
		if body, err = extras.apply(body); err != nil {
			return nil, err
		}
	}

	req.Body = io.NopCloser(bytes.NewReader(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	req.ContentLength = int64(len(body))

	return t.base.Do(req)
}
