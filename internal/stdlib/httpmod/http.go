// Package httpmod implements the `http` stdlib module (spec §6.3): a thin
// binding over net/http for the handful of blocking request shapes a
// script needs, mirrored on the same "explicit blocking I/O call"
// suspension point the evaluator already grants stdlib modules (spec
// §5, "Suspension points").
package httpmod

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/stdlib/stdlibutil"
	"github.com/naab-lang/naab/internal/value"
)

// Module is the `http` stdlib module.
type Module struct {
	Client *http.Client
}

// New returns the http module with a bounded default client timeout, so a
// naab script's `use http` can never hang a run indefinitely on a dead
// peer.
func New() *Module {
	return &Module{Client: &http.Client{Timeout: 30 * time.Second}}
}

func (*Module) Name() string { return "http" }

func (m *Module) Build() (*value.Environment, error) {
	env := value.NewEnvironment()
	env.Define("get", stdlibutil.Native("http.get", m.httpGet))
	env.Define("post", stdlibutil.Native("http.post", m.httpPost))
	return env, nil
}

func (m *Module) httpGet(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("http.get", args, 1); err != nil {
		return nil, err
	}
	url, err := stdlibutil.Str("http.get", args, 0)
	if err != nil {
		return nil, err
	}
	resp, rerr := m.Client.Get(url)
	if rerr != nil {
		return nil, errtax.New(errtax.KindIO, "http.get: "+rerr.Error())
	}
	return m.responseStruct(resp)
}

func (m *Module) httpPost(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("http.post", args, 3); err != nil {
		return nil, err
	}
	url, err := stdlibutil.Str("http.post", args, 0)
	if err != nil {
		return nil, err
	}
	contentType, err := stdlibutil.Str("http.post", args, 1)
	if err != nil {
		return nil, err
	}
	body, err := stdlibutil.Str("http.post", args, 2)
	if err != nil {
		return nil, err
	}
	resp, rerr := m.Client.Post(url, contentType, strings.NewReader(body))
	if rerr != nil {
		return nil, errtax.New(errtax.KindIO, "http.post: "+rerr.Error())
	}
	return m.responseStruct(resp)
}

func (*Module) responseStruct(resp *http.Response) (value.Value, error) {
	defer resp.Body.Close()
	b, rerr := io.ReadAll(resp.Body)
	if rerr != nil {
		return nil, errtax.New(errtax.KindIO, "http: reading response body: "+rerr.Error())
	}
	order := []string{"status", "body"}
	fields := map[string]value.Value{
		"status": value.Int(resp.StatusCode),
		"body":   value.String(b),
	}
	return value.NewStruct("HttpResponse", order, fields), nil
}

