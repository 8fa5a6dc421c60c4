package httpmod_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/naab-lang/naab/internal/stdlib/httpmod"
	"github.com/naab-lang/naab/internal/value"
)

func TestHTTP_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("brewing"))
	}))
	defer srv.Close()

	m := httpmod.New()
	env, err := m.Build()
	require.NoError(t, err)

	fn, ok := env.Get("get")
	require.True(t, ok)
	v, err := fn.(*value.NativeFunction).Handler([]value.Value{value.String(srv.URL)})
	require.NoError(t, err)

	resp := v.(*value.Struct)
	status, _ := resp.Fields["status"]
	body, _ := resp.Fields["body"]
	require.Equal(t, value.Int(http.StatusTeapot), status)
	require.Equal(t, value.String("brewing"), body)
}

func TestHTTP_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		w.Write(b)
	}))
	defer srv.Close()

	m := httpmod.New()
	env, err := m.Build()
	require.NoError(t, err)

	fn, ok := env.Get("post")
	require.True(t, ok)
	v, err := fn.(*value.NativeFunction).Handler([]value.Value{
		value.String(srv.URL), value.String("text/plain"), value.String("payload"),
	})
	require.NoError(t, err)

	resp := v.(*value.Struct)
	require.Equal(t, value.String("payload"), resp.Fields["body"])
}
