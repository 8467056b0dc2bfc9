package render

import (
	"io"

	"github.com/komsit37/sk/pkg/sk/filter"
	"github.com/komsit37/sk/pkg/sk/types"
)

// Renderer renders fetched bundles to an output writer.
type Renderer interface {
	Render(w io.Writer, bundles []*types.Bundle, opts RenderOptions) error
}

type RenderOptions struct {
	// Sections limits which top-level sections the JSON output carries.
	Sections    filter.Filter
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
}
