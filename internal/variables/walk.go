package variables

import (
	"fmt"
	"sort"
)

// StringFunc rewrites a single string leaf.
type StringFunc func(path string, value string) (string, error)

// Walk returns a copy of value in which every string leaf has been replaced
// by the result of fn. Mappings and sequences are copied; other scalars are
// returned as-is. Mapping keys are visited in sorted order so the walk is
// deterministic. The first error from fn stops the walk.
//
// path is a dotted location used only for diagnostics, e.g. "services.api.path"
// or "services.api.params[0]".
func Walk(value any, fn StringFunc) (any, error) {
	return walk("", value, fn)
}

func walk(path string, value any, fn StringFunc) (any, error) {
	switch v := value.(type) {
	case string:
		return fn(path, v)
	case map[string]any:
		out := make(map[string]any, len(v))
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			res, err := walk(join(path, key), v[key], fn)
			if err != nil {
				return nil, err
			}
			out[key] = res
		}
		return out, nil
	case map[any]any:
		out := make(map[any]any, len(v))
		keys := make([]any, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j]) })
		for _, key := range keys {
			child := v[key]
			res, err := walk(join(path, fmt.Sprint(key)), child, fn)
			if err != nil {
				return nil, err
			}
			out[key] = res
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			res, err := walk(fmt.Sprintf("%s[%d]", path, i), child, fn)
			if err != nil {
				return nil, err
			}
			out[i] = res
		}
		return out, nil
	default:
		return value, nil
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
