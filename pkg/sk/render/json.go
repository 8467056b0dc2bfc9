package render

import (
	"encoding/json"
	"io"

	"github.com/komsit37/sk/pkg/sk/filter"
	"github.com/komsit37/sk/pkg/sk/types"
)

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Render(w io.Writer, bundles []*types.Bundle, opts RenderOptions) error {
	out := make([]map[string]json.RawMessage, 0, len(bundles))
	for _, b := range bundles {
		m, err := prune(b, opts.Sections)
		if err != nil {
			return err
		}
		out = append(out, m)
	}
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

// prune drops top-level sections the filter rejects. The symbol and any
// error always survive so the output stays attributable.
func prune(b *types.Bundle, f filter.Filter) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if f == nil {
		return m, nil
	}
	for key := range m {
		if key == "symbol" || key == "error" {
			continue
		}
		if !f.Match(key) {
			delete(m, key)
		}
	}
	return m, nil
}
