package repository

import (
	"fmt"
	"math"
	"time"

	"github.com/vanshika/netintel/internal/graph"
)

// rowDecoder reads typed properties out of a record. The first missing
// required property or mistyped value is kept in err and later reads become
// no-ops, so callers check err once after building the struct.
type rowDecoder struct {
	record graph.Record
	err    error
}

func decode(record graph.Record) *rowDecoder {
	return &rowDecoder{record: record}
}

func (d *rowDecoder) fail(key string, val any, want string) {
	if d.err != nil {
		return
	}
	if val == nil {
		d.err = fmt.Errorf("property %s is missing", key)
		return
	}
	d.err = fmt.Errorf("property %s: expected %s, got %T", key, want, val)
}

// str reads an optional string; absent means "".
func (d *rowDecoder) str(key string) string {
	val := d.record[key]
	if val == nil {
		return ""
	}
	s, ok := toString(val)
	if !ok {
		d.fail(key, val, "string")
	}
	return s
}

// list reads an optional list of strings; absent means nil.
func (d *rowDecoder) list(key string) []string {
	val := d.record[key]
	if val == nil {
		return nil
	}
	out, ok := toStrings(val)
	if !ok {
		d.fail(key, val, "list of strings")
	}
	return out
}

func (d *rowDecoder) number(key string) float64 {
	val := d.record[key]
	f, ok := toFloat64(val)
	if !ok {
		d.fail(key, val, "number")
	}
	return f
}

func (d *rowDecoder) integer(key string) int {
	val := d.record[key]
	n, ok := toInt(val)
	if !ok {
		d.fail(key, val, "integer")
	}
	return n
}

func (d *rowDecoder) boolean(key string) bool {
	val := d.record[key]
	b, ok := val.(bool)
	if !ok {
		d.fail(key, val, "boolean")
	}
	return b
}

func (d *rowDecoder) datetime(key string) time.Time {
	val := d.record[key]
	t, ok := toTime(val)
	if !ok {
		d.fail(key, val, "datetime")
	}
	return t
}

// optDatetime reads an optional datetime; absent means nil.
func (d *rowDecoder) optDatetime(key string) *time.Time {
	if d.record[key] == nil {
		return nil
	}
	t := d.datetime(key)
	if d.err != nil {
		return nil
	}
	return &t
}

func toString(val any) (string, bool) {
	s, ok := val.(string)
	return s, ok
}

func toStrings(val any) ([]string, bool) {
	switch v := val.(type) {
	case []string:
		return append([]string(nil), v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			if s != "" {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func toFloat64(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func toInt(val any) (int, bool) {
	switch v := val.(type) {
	case int64:
		return int(v), true
	case int:
		return v, true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

// toTime accepts native datetimes and RFC3339 strings written by older
// ingests.
func toTime(val any) (time.Time, bool) {
	switch v := val.(type) {
	case time.Time:
		return v, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}
