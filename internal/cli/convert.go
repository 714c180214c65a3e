package cli

import (
	"fmt"
	"math/big"
	"time"

	"github.com/pathkv/hierodb"
)

// readTree recursively materializes h into plain Go values (map,
// slice, scalar) suitable for JSON or YAML encoding. bigint,
// timestamp, and regexp leaves are rendered as single-key tagged maps
// so importTree can reconstruct the exact hierodb.Value type.
func readTree(h *hierodb.Handle) (any, error) {
	entries, err := h.Values()
	if err != nil {
		return nil, err
	}

	if h.Kind() == hierodb.KindArray {
		out := make([]any, 0, len(entries))
		for _, e := range entries {
			v, err := readEntry(e)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	out := make(map[string]any, len(entries))
	for _, e := range entries {
		v, err := readEntry(e)
		if err != nil {
			return nil, err
		}
		// A record key that looks like an array index is stored as a
		// number segment, so Key may be a uint32 here.
		out[fmt.Sprint(e.Key)] = v
	}
	return out, nil
}

func readEntry(e hierodb.Entry) (any, error) {
	if e.Handle != nil {
		return readTree(e.Handle)
	}
	return scalarToPlain(e.Value)
}

// scalarToPlain renders a scalar hierodb.Value as a plain Go value.
func scalarToPlain(v hierodb.Value) (any, error) {
	switch val := v.(type) {
	case hierodb.Null:
		return nil, nil
	case hierodb.Bool:
		return bool(val), nil
	case hierodb.Number:
		return float64(val), nil
	case hierodb.String:
		return string(val), nil
	case hierodb.BigInt:
		return map[string]any{"$bigint": val.String()}, nil
	case hierodb.Timestamp:
		return map[string]any{"$timestamp": time.Time(val).UnixMilli()}, nil
	case hierodb.Regexp:
		return map[string]any{"$regexp": string(val)}, nil
	default:
		return nil, NewExitError(ExitCommandError, "value has an unsupported scalar type")
	}
}

// importTree converts a plain Go value (as decoded from JSON or YAML)
// into a hierodb.Value tree, recognizing the tagged-map forms
// scalarToPlain produces for bigint/timestamp/regexp.
func importTree(v any) (hierodb.Value, error) {
	switch val := v.(type) {
	case nil:
		return hierodb.Null{}, nil
	case bool:
		return hierodb.Bool(val), nil
	case float64:
		return hierodb.Number(val), nil
	case int:
		return hierodb.Number(float64(val)), nil
	case string:
		return hierodb.String(val), nil
	case []any:
		items := make([]hierodb.Value, len(val))
		for i, elem := range val {
			item, err := importTree(elem)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return hierodb.NewArray(items...), nil
	case map[string]any:
		if raw, ok := val["$bigint"]; ok {
			s, _ := raw.(string)
			n, ok := new(big.Int).SetString(s, 10)
			if !ok {
				return nil, NewExitError(ExitCommandError, "malformed $bigint value "+s)
			}
			return hierodb.NewBigInt(n), nil
		}
		if raw, ok := val["$timestamp"]; ok {
			// JSON decodes numbers as float64; YAML decodes integers as int.
			var ms int64
			switch n := raw.(type) {
			case float64:
				ms = int64(n)
			case int:
				ms = int64(n)
			case int64:
				ms = n
			}
			return hierodb.NewTimestamp(time.UnixMilli(ms).UTC()), nil
		}
		if raw, ok := val["$regexp"]; ok {
			s, _ := raw.(string)
			return hierodb.Regexp(s), nil
		}

		rec := hierodb.NewRecord()
		for k, elem := range val {
			item, err := importTree(elem)
			if err != nil {
				return nil, err
			}
			rec.Set(k, item)
		}
		return rec, nil
	default:
		return nil, NewExitError(ExitCommandError, "unsupported JSON/YAML value for import")
	}
}
