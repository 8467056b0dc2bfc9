package symbols

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a symbols file. Accepted YAML shapes:
// - a flat list of symbol strings
// - a list of maps carrying a 'sym' key (extra keys ignored)
// - a map with a 'symbols' key holding either of the above
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) ([]string, error) {
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if m, ok := root.(map[string]any); ok {
		node, ok := m["symbols"]
		if !ok {
			return nil, fmt.Errorf("invalid symbols file: missing 'symbols'")
		}
		root = node
	}
	list, ok := root.([]any)
	if !ok {
		return nil, fmt.Errorf("invalid symbols file: expected a list")
	}

	out := make([]string, 0, len(list))
	for _, e := range list {
		switch v := e.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			sym, ok := v["sym"]
			if !ok || sym == nil {
				return nil, fmt.Errorf("invalid symbols file: entry missing 'sym'")
			}
			out = append(out, fmt.Sprint(sym))
		default:
			return nil, fmt.Errorf("invalid symbols file: unsupported entry %T", e)
		}
	}
	return out, nil
}
