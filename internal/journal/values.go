package journal

import (
	"bytes"
	"caml/internal/object"
	"encoding/json"
	"math"

	"github.com/pkg/errors"
)

// orderedDict marshals a dict with its keys in insertion order.
type orderedDict struct {
	dict *object.Dict
}

func (o orderedDict) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.dict.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		val, _ := o.dict.Get(key)
		v, err := json.Marshal(plain(val))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// plain converts a runtime value into something encoding/json understands.
func plain(o object.Object) any {
	switch v := o.(type) {
	case nil, *object.Null:
		return nil
	case *object.Integer:
		return v.Value
	case *object.Float:
		if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
			// JSON has no NaN or infinity; store the display form
			return v.Inspect()
		}
		return v.Value
	case *object.Text:
		return v.Value
	case *object.Boolean:
		return v.Value
	case *object.List:
		out := make([]any, len(v.Elements))
		for i, el := range v.Elements {
			out[i] = plain(el)
		}
		return out
	case *object.Dict:
		return orderedDict{dict: v}
	}
	return o.Inspect()
}

func toJSON(o object.Object) (string, error) {
	if d, ok := o.(*object.Dict); ok && d == nil {
		return "{}", nil
	}
	return marshal(plain(o))
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode journal value")
	}
	return string(data), nil
}
