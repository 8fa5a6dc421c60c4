package polyglot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/types"
	"github.com/naab-lang/naab/internal/value"
)

// marshalLiteral renders v as a literal in the target guest language,
// following the bit-exact table in spec §4.5.2. It is the one place that
// table lives in code; every executor's binding-declaration builder calls
// through here instead of re-deriving per-type formatting.
func marshalLiteral(lang string, v value.Value) (string, error) {
	switch x := v.(type) {
	case value.Void:
		return nullLiteral(lang), nil
	case value.Int:
		return marshalInt(lang, int64(x)), nil
	case value.Float:
		return marshalFloat(lang, float64(x)), nil
	case value.Bool:
		return marshalBool(lang, bool(x)), nil
	case value.String:
		return marshalString(lang, string(x)), nil
	case *value.List:
		return marshalList(lang, x)
	case *value.Dict:
		return marshalDict(lang, x)
	case *value.Struct:
		return marshalStruct(lang, x)
	default:
		return "", &errtax.Error{
			Kind:    errtax.KindPolyglotError,
			Message: fmt.Sprintf("value of kind %v has no marshalled form for %s", v.RuntimeKind(), lang),
		}
	}
}

func nullLiteral(lang string) string {
	switch lang {
	case langPython:
		return "None"
	case langJavaScript:
		return "null"
	case langCpp:
		return "std::nullopt"
	case langRust:
		return "None"
	case langGo:
		return "nil"
	case langRuby:
		return "nil"
	case langPHP:
		return "null"
	case langCSharp:
		return "null"
	case langShell:
		return ""
	default:
		return "null"
	}
}

func marshalInt(lang string, n int64) string {
	s := strconv.FormatInt(n, 10)
	switch lang {
	case langRust:
		return s + "i64"
	case langCSharp:
		return s + "L"
	default:
		return s
	}
}

func marshalFloat(lang string, f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	switch lang {
	case langRust:
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s + "f64"
	default:
		return s
	}
}

func marshalBool(lang string, b bool) string {
	switch lang {
	case langPython:
		if b {
			return "True"
		}
		return "False"
	case langShell:
		if b {
			return "1"
		}
		return "0"
	default:
		if b {
			return "true"
		}
		return "false"
	}
}

func marshalString(lang string, s string) string {
	switch lang {
	case langShell:
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	case langRust:
		return strconv.Quote(s) + ".to_string()"
	case langCpp:
		return "std::string(" + strconv.Quote(s) + ")"
	default:
		return strconv.Quote(s)
	}
}

// marshalList renders a list. C#, Go, C++ and Rust require a homogeneous
// element type to produce a typed List/slice/vector/Vec literal; a
// heterogeneous list is rejected for those four languages, rather than silently
// degrading to a string-keyed structure those languages don't have.
func marshalList(lang string, l *value.List) (string, error) {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		lit, err := marshalLiteral(lang, e)
		if err != nil {
			return "", err
		}
		parts[i] = lit
	}
	switch lang {
	case langPython:
		return "[" + strings.Join(parts, ", ") + "]", nil
	case langJavaScript:
		return "[" + strings.Join(parts, ", ") + "]", nil
	case langRuby:
		return "[" + strings.Join(parts, ", ") + "]", nil
	case langPHP:
		return "array(" + strings.Join(parts, ", ") + ")", nil
	case langCSharp:
		elemType, err := homogeneousCSharpType(l)
		if err != nil {
			return "", err
		}
		return "new List<" + elemType + ">{ " + strings.Join(parts, ", ") + " }", nil
	case langGo:
		elemType, err := homogeneousGoType(l)
		if err != nil {
			return "", err
		}
		return "[]" + elemType + "{" + strings.Join(parts, ", ") + "}", nil
	case langCpp:
		elemType, err := homogeneousCppType(l)
		if err != nil {
			return "", err
		}
		return "std::vector<" + elemType + ">{" + strings.Join(parts, ", ") + "}", nil
	case langRust:
		elemType, err := homogeneousRustType(l)
		if err != nil {
			return "", err
		}
		return "vec![" + strings.Join(parts, ", ") + "] as Vec<" + elemType + ">", nil
	case langShell:
		return strings.Join(rawStrings(l), "\n"), nil
	default:
		return "[" + strings.Join(parts, ", ") + "]", nil
	}
}

func rawStrings(l *value.List) []string {
	out := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		out[i] = value.TextForm(e)
	}
	return out
}

func homogeneousKind(l *value.List) (string, error) {
	if len(l.Elems) == 0 {
		return "empty", nil
	}
	kind := l.Elems[0].RuntimeKind()
	for _, e := range l.Elems[1:] {
		if e.RuntimeKind() != kind {
			return "", &errtax.Error{
				Kind:    errtax.KindPolyglotError,
				Message: "heterogeneous list cannot be marshalled to a typed vector for this guest language",
			}
		}
	}
	return types.RuntimeTypeName(kind, ""), nil
}

func homogeneousCppType(l *value.List) (string, error) {
	k, err := homogeneousKind(l)
	if err != nil {
		return "", err
	}
	return cTypeName(k), nil
}

func homogeneousRustType(l *value.List) (string, error) {
	k, err := homogeneousKind(l)
	if err != nil {
		return "", err
	}
	return rustTypeName(k), nil
}

func homogeneousGoType(l *value.List) (string, error) {
	k, err := homogeneousKind(l)
	if err != nil {
		return "", err
	}
	return goTypeName(k), nil
}

func homogeneousCSharpType(l *value.List) (string, error) {
	k, err := homogeneousKind(l)
	if err != nil {
		return "", err
	}
	return csharpTypeName(k), nil
}

func cTypeName(kind string) string {
	switch kind {
	case "int":
		return "long long"
	case "float":
		return "double"
	case "bool":
		return "bool"
	case "string":
		return "std::string"
	default:
		return "std::string"
	}
}

func rustTypeName(kind string) string {
	switch kind {
	case "int":
		return "i64"
	case "float":
		return "f64"
	case "bool":
		return "bool"
	case "string":
		return "String"
	default:
		return "String"
	}
}

func goTypeName(kind string) string {
	switch kind {
	case "int":
		return "int64"
	case "float":
		return "float64"
	case "bool":
		return "bool"
	case "string":
		return "string"
	default:
		return "string"
	}
}

func csharpTypeName(kind string) string {
	switch kind {
	case "int":
		return "long"
	case "float":
		return "double"
	case "bool":
		return "bool"
	case "string":
		return "string"
	default:
		return "string"
	}
}

// marshalDict renders a dict. C++ and Rust reject dicts whose values
// aren't a homogeneous scalar type, matching the list restriction above;
// shell renders key=value pairs, one per line, env-file style.
func marshalDict(lang string, d *value.Dict) (string, error) {
	keys := d.Keys()
	switch lang {
	case langPython:
		parts := make([]string, len(keys))
		for i, k := range keys {
			v, _ := d.Get(k)
			lit, err := marshalLiteral(lang, v)
			if err != nil {
				return "", err
			}
			parts[i] = strconv.Quote(k) + ": " + lit
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	case langJavaScript:
		parts := make([]string, len(keys))
		for i, k := range keys {
			v, _ := d.Get(k)
			lit, err := marshalLiteral(lang, v)
			if err != nil {
				return "", err
			}
			parts[i] = strconv.Quote(k) + ": " + lit
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	case langRuby:
		parts := make([]string, len(keys))
		for i, k := range keys {
			v, _ := d.Get(k)
			lit, err := marshalLiteral(lang, v)
			if err != nil {
				return "", err
			}
			parts[i] = strconv.Quote(k) + " => " + lit
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	case langPHP:
		parts := make([]string, len(keys))
		for i, k := range keys {
			v, _ := d.Get(k)
			lit, err := marshalLiteral(lang, v)
			if err != nil {
				return "", err
			}
			parts[i] = strconv.Quote(k) + " => " + lit
		}
		return "array(" + strings.Join(parts, ", ") + ")", nil
	case langCpp, langRust:
		elemKind := ""
		parts := make([]string, 0, len(keys))
		for i, k := range keys {
			v, _ := d.Get(k)
			if i == 0 {
				elemKind = types.RuntimeTypeName(v.RuntimeKind(), "")
			} else if types.RuntimeTypeName(v.RuntimeKind(), "") != elemKind {
				return "", &errtax.Error{Kind: errtax.KindPolyglotError, Message: "heterogeneous dict cannot be marshalled for " + lang}
			}
			lit, err := marshalLiteral(lang, v)
			if err != nil {
				return "", err
			}
			if lang == langCpp {
				parts = append(parts, "{"+strconv.Quote(k)+", "+lit+"}")
			} else {
				parts = append(parts, "("+strconv.Quote(k)+".to_string(), "+lit+")")
			}
		}
		valType := "std::string"
		if elemKind != "" {
			if lang == langCpp {
				valType = cTypeName(elemKind)
				return "std::map<std::string, " + valType + ">{" + strings.Join(parts, ", ") + "}", nil
			}
			valType = rustTypeName(elemKind)
			return "HashMap::from([" + strings.Join(parts, ", ") + "]) as std::collections::HashMap<String, " + valType + ">", nil
		}
		if lang == langCpp {
			return "std::map<std::string, std::string>{}", nil
		}
		return "std::collections::HashMap::<String, String>::new()", nil
	case langGo:
		parts := make([]string, len(keys))
		for i, k := range keys {
			v, _ := d.Get(k)
			lit, err := marshalLiteral(lang, v)
			if err != nil {
				return "", err
			}
			parts[i] = strconv.Quote(k) + ": " + lit
		}
		return "map[string]any{" + strings.Join(parts, ", ") + "}", nil
	case langCSharp:
		parts := make([]string, len(keys))
		for i, k := range keys {
			v, _ := d.Get(k)
			lit, err := marshalLiteral(lang, v)
			if err != nil {
				return "", err
			}
			parts[i] = "{" + strconv.Quote(k) + ", " + lit + "}"
		}
		return "new Dictionary<string, object>{ " + strings.Join(parts, ", ") + " }", nil
	case langShell:
		lines := make([]string, len(keys))
		for i, k := range keys {
			v, _ := d.Get(k)
			lines[i] = k + "=" + value.TextForm(v)
		}
		return strings.Join(lines, "\n"), nil
	default:
		return "{}", nil
	}
}

// marshalStruct renders a struct as a dict-shaped literal (or, for the
// compiled languages, a generated POD type would be needed; this
// implementation marshals structs as their field dict across every guest,
// matching the "also serializable" fallback spec §4.5.2 allows). Field
// names are sorted for deterministic output since Struct doesn't expose
// its declaration order outside package value.
func marshalStruct(lang string, s *value.Struct) (string, error) {
	names := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	d := value.NewDict()
	for _, k := range names {
		d.Set(k, s.Fields[k])
	}
	return marshalDict(lang, d)
}
