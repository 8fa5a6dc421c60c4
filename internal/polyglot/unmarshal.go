package polyglot

import (
	"encoding/json"

	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/value"
)

// unmarshalPayload decodes a guest's sentinel-delimited JSON payload into
// a naab value. JSON is the one point where every guest language agrees
// on a wire format regardless of how its own literal syntax differs
// (spec §4.5 step 5), so this is the single conversion point for every
// Executor's result path.
func unmarshalPayload(raw string) (value.Value, error) {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, &errtax.Error{
			Kind:    errtax.KindPolyglotError,
			Message: "guest return payload is not valid JSON",
			Detail:  err.Error(),
		}
	}
	return fromJSON(decoded), nil
}

func fromJSON(v any) value.Value {
	switch x := v.(type) {
	case nil:
		return value.VoidValue
	case bool:
		return value.Bool(x)
	case string:
		return value.String(x)
	case float64:
		if x == float64(int64(x)) {
			return value.Int(int64(x))
		}
		return value.Float(x)
	case []any:
		elems := make([]value.Value, len(x))
		for i, e := range x {
			elems[i] = fromJSON(e)
		}
		return value.NewList(elems)
	case map[string]any:
		d := value.NewDict()
		for k, e := range x {
			d.Set(k, fromJSON(e))
		}
		return d
	default:
		return value.VoidValue
	}
}
