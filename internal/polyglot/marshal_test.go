package polyglot

import (
	"strings"
	"testing"

	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/value"
)

func TestMarshalLiteral_Scalars(t *testing.T) {
	cases := []struct {
		lang string
		v    value.Value
		want string
	}{
		{langPython, value.Int(3), "3"},
		{langPython, value.Bool(true), "True"},
		{langJavaScript, value.Bool(false), "false"},
		{langShell, value.Bool(true), "1"},
		{langRust, value.Int(5), "5i64"},
		{langPython, value.Void{}, "None"},
		{langJavaScript, value.Void{}, "null"},
	}
	for _, c := range cases {
		got, err := marshalLiteral(c.lang, c.v)
		if err != nil {
			t.Fatalf("marshalLiteral(%s, %v): %v", c.lang, c.v, err)
		}
		if got != c.want {
			t.Errorf("marshalLiteral(%s, %v) = %q, want %q", c.lang, c.v, got, c.want)
		}
	}
}

func TestMarshalLiteral_StringEscaping(t *testing.T) {
	got, err := marshalLiteral(langShell, value.String("it's"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `'\''`) {
		t.Errorf("expected shell single-quote escaping, got %q", got)
	}
}

func TestMarshalLiteral_HomogeneousListAcceptedByCpp(t *testing.T) {
	list := value.NewList([]value.Value{value.Int(1), value.Int(2), value.Int(3)})
	got, err := marshalLiteral(langCpp, list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "std::vector<long long>") {
		t.Errorf("expected a typed vector, got %q", got)
	}
}

func TestMarshalLiteral_HeterogeneousListRejectedByCpp(t *testing.T) {
	list := value.NewList([]value.Value{value.Int(1), value.String("x")})
	_, err := marshalLiteral(langCpp, list)
	if err == nil {
		t.Fatal("expected heterogeneous list to be rejected for C++")
	}
}

func TestMarshalLiteral_HeterogeneousListAllowedByPython(t *testing.T) {
	list := value.NewList([]value.Value{value.Int(1), value.String("x")})
	got, err := marshalLiteral(langPython, list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `[1, "x"]` {
		t.Errorf("got %q", got)
	}
}

func TestSentinelExtraction(t *testing.T) {
	stdout := "some banner\n" + sentinelStart + "\n{\"a\":1}\n" + sentinelEnd + "\ntrailing\n"
	payload, ok := extractSentinelPayload(stdout)
	if !ok {
		t.Fatal("expected sentinel payload to be found")
	}
	if payload != `{"a":1}` {
		t.Errorf("got %q", payload)
	}
}

func TestSentinelExtraction_Missing(t *testing.T) {
	_, ok := extractSentinelPayload("no sentinel here")
	if ok {
		t.Fatal("expected no sentinel payload to be found")
	}
}

func TestUnmarshalPayload_ListAndDict(t *testing.T) {
	v, err := unmarshalPayload(`{"x": 1, "y": [1, 2.5, "z"]}`)
	if err != nil {
		t.Fatal(err)
	}
	d, ok := v.(*value.Dict)
	if !ok {
		t.Fatalf("expected *value.Dict, got %T", v)
	}
	x, _ := d.Get("x")
	if x != value.Int(1) {
		t.Errorf("expected x=1, got %v", x)
	}
}

func TestDispatcher_UnsupportedLanguageIsUnsupportedLangError(t *testing.T) {
	d := NewDispatcher()
	_, err := d.Run(t.Context(), "cobol", "", nil)
	if err == nil {
		t.Fatal("expected an error for an unregistered language")
	}
	if te, ok := err.(*errtax.Error); !ok || te.Kind != errtax.KindUnsupportedLang {
		t.Fatalf("expected a %s error, got %v", errtax.KindUnsupportedLang, err)
	}
}
