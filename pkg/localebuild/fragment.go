package localebuild

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var fragmentExts = []string{".json", ".yaml", ".yml"}

func isFragment(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range fragmentExts {
		if ext == e {
			return true
		}
	}
	return false
}

// ParseFragmentName derives the namespace and language of a fragment from its
// file name. "ns.lang.json" yields (ns, lang); "lang.json" yields
// (defaultNS, lang). Extra dot-separated components after the language are
// ignored.
func ParseFragmentName(path, defaultNS string) (namespace, language string, err error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(stem, ".")
	switch {
	case len(parts) == 1:
		namespace, language = defaultNS, parts[0]
	default:
		namespace, language = parts[0], parts[1]
	}

	if namespace == "" || language == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidFragmentName, path)
	}
	return namespace, language, nil
}

// Merge deep-merges src into dst and returns dst. Nested objects are merged
// key by key; scalars and arrays from src replace whatever dst holds. Values
// taken from src are copied so later merges never write into src.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, value := range src {
		srcMap, srcIsMap := value.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		switch {
		case srcIsMap && dstIsMap:
			dst[key] = Merge(dstMap, srcMap)
		case srcIsMap:
			dst[key] = Merge(nil, srcMap)
		default:
			dst[key] = clone(value)
		}
	}
	return dst
}

func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Merge(nil, t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = clone(item)
		}
		return out
	default:
		return v
	}
}

// parseFragment decodes a fragment. The top-level value must be an object.
func parseFragment(path string, data []byte) (map[string]any, error) {
	var out map[string]any

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrMalformedFragment, path, err)
		}
		out = normalizeYAML(out)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrMalformedFragment, path, err)
		}
		if dec.More() {
			return nil, fmt.Errorf("%w: %s: trailing data", ErrMalformedFragment, path)
		}
	}

	if out == nil {
		return nil, fmt.Errorf("%w: %s: top-level value must be an object", ErrMalformedFragment, path)
	}
	return out, nil
}

// normalizeYAML converts map[any]any nodes, which yaml.v3 produces for
// non-string keys, into JSON-compatible maps.
func normalizeYAML(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeYAMLValue(v)
	}
	return m
}

func normalizeYAMLValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeYAML(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAMLValue(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = normalizeYAMLValue(t[i])
		}
		return t
	default:
		return v
	}
}
