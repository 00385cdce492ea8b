package mapper

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// fields reads values out of one decoded JSON object. path is the dotted
// location of the object inside the document being mapped and is used in
// error messages.
type fields struct {
	m    map[string]any
	path string
}

func newFields(m map[string]any, path string) fields {
	return fields{m: m, path: path}
}

func (f fields) at(key string) string {
	if f.path == "" {
		return key
	}
	return f.path + "." + key
}

// lookup reports the value for key. Explicit JSON nulls count as absent.
func (f fields) lookup(key string) (any, bool) {
	v, ok := f.m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (f fields) has(key string) bool {
	_, ok := f.lookup(key)
	return ok
}

func (f fields) object(key string) (fields, error) {
	v, ok := f.lookup(key)
	if !ok {
		return fields{}, missing(f.at(key))
	}
	m, ok := v.(map[string]any)
	if !ok {
		return fields{}, wrongType(f.at(key), "object", v)
	}
	return newFields(m, f.at(key)), nil
}

// optObject returns ok=false when the key is absent or null.
func (f fields) optObject(key string) (fields, bool, error) {
	if !f.has(key) {
		return fields{}, false, nil
	}
	obj, err := f.object(key)
	if err != nil {
		return fields{}, false, err
	}
	return obj, true, nil
}

func (f fields) str(key string) (string, error) {
	v, ok := f.lookup(key)
	if !ok {
		return "", missing(f.at(key))
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(f.at(key), "string", v)
	}
	return s, nil
}

// optStr returns "" for absent or null keys but still rejects non-strings.
func (f fields) optStr(key string) (string, error) {
	if !f.has(key) {
		return "", nil
	}
	return f.str(key)
}

func (f fields) integer(key string) (int, error) {
	v, ok := f.lookup(key)
	if !ok {
		return 0, missing(f.at(key))
	}
	n, ok := toInt(v)
	if !ok {
		return 0, wrongType(f.at(key), "integer", v)
	}
	return n, nil
}

func (f fields) float(key string) (float64, error) {
	v, ok := f.lookup(key)
	if !ok {
		return 0, missing(f.at(key))
	}
	n, ok := toFloat(v)
	if !ok {
		return 0, wrongType(f.at(key), "number", v)
	}
	return n, nil
}

func (f fields) boolean(key string) (bool, error) {
	v, ok := f.lookup(key)
	if !ok {
		return false, missing(f.at(key))
	}
	b, ok := v.(bool)
	if !ok {
		return false, wrongType(f.at(key), "boolean", v)
	}
	return b, nil
}

func (f fields) optBoolean(key string) (bool, error) {
	if !f.has(key) {
		return false, nil
	}
	return f.boolean(key)
}

func (f fields) array(key string) ([]any, error) {
	v, ok := f.lookup(key)
	if !ok {
		return nil, missing(f.at(key))
	}
	a, ok := v.([]any)
	if !ok {
		return nil, wrongType(f.at(key), "array", v)
	}
	return a, nil
}

// count reads the {"count": n} wrapper the API uses for counters.
func (f fields) count(key string) (int, error) {
	obj, err := f.object(key)
	if err != nil {
		return 0, err
	}
	return obj.integer("count")
}

func (f fields) timestamp(key string) (time.Time, error) {
	s, err := f.str(key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, &MappingError{Field: f.at(key), Err: err}
	}
	return t, nil
}

// optTimestamp maps absent, null and empty values to the zero time.
func (f fields) optTimestamp(key string) (time.Time, error) {
	s, err := f.optStr(key)
	if err != nil || s == "" {
		return time.Time{}, err
	}
	return f.timestamp(key)
}

// elem reads the i-th entry of an array as an object.
func elem(items []any, i int, path string) (fields, error) {
	at := path + "." + strconv.Itoa(i)
	m, ok := items[i].(map[string]any)
	if !ok {
		return fields{}, wrongType(at, "object", items[i])
	}
	return newFields(m, at), nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int(f), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
