package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/komsit37/sk/pkg/sk/types"
)

// symsRenderer prints all symbols in a single comma-separated line.
type symsRenderer struct{}

func NewSymsRenderer() Renderer {
	return symsRenderer{}
}

func (symsRenderer) Render(w io.Writer, bundles []*types.Bundle, _ RenderOptions) error {
	symbols := make([]string, 0, len(bundles))
	for _, b := range bundles {
		sym := strings.TrimSpace(b.Symbol)
		if sym == "" {
			continue
		}
		symbols = append(symbols, sym)
	}
	_, err := fmt.Fprintln(w, strings.Join(symbols, ","))
	return err
}
