package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/sk/pkg/sk/types"
)

var tableColumns = []string{
	"sym", "name", "price", "chg%", "mcap(b)", "pe",
	"rev(b)", "rev yoy%", "ni(b)", "eps", "roe%", "signal",
}

type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func (r *TableRenderer) Render(w io.Writer, bundles []*types.Bundle, opts RenderOptions) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleColoredDark)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false

	hdr := make(table.Row, len(tableColumns))
	for i, c := range tableColumns {
		hdr[i] = strings.ToUpper(c)
	}
	tw.AppendHeader(hdr)

	maxWidth := opts.MaxColWidth
	if maxWidth <= 0 {
		maxWidth = 40
	}
	cfgs := make([]table.ColumnConfig, 0, len(tableColumns))
	for i, c := range tableColumns {
		cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth}
		switch c {
		case "price", "chg%", "mcap(b)", "pe", "rev(b)", "rev yoy%", "ni(b)", "eps", "roe%":
			cfg.Align = text.AlignRight
			cfg.AlignHeader = text.AlignRight
		}
		cfgs = append(cfgs, cfg)
	}
	tw.SetColumnConfigs(cfgs)

	for _, b := range bundles {
		if b.Error != "" {
			tw.AppendRow(errorRow(b))
			continue
		}
		tw.AppendRow(bundleRow(b, opts))
	}
	tw.Render()
	return nil
}

func errorRow(b *types.Bundle) table.Row {
	row := make(table.Row, len(tableColumns))
	row[0] = b.Symbol
	row[1] = "error: " + b.Error
	for i := 2; i < len(tableColumns); i++ {
		row[i] = ""
	}
	return row
}

func bundleRow(b *types.Bundle, opts RenderOptions) table.Row {
	rt := b.Realtime
	if rt == nil {
		rt = &types.RealtimeSnapshot{}
	}
	fin := b.Financial
	if fin == nil {
		fin = &types.FinancialSnapshot{}
	}

	row := table.Row{
		b.Symbol,
		rt.StockName,
		fmtNum(rt.Price),
		fmtNum(rt.ChangePct),
		fmtNum(rt.MarketCapB),
		fmtNum(rt.PETTM),
		fmtNum(fin.RevenueB),
		fmtNum(fin.RevenueYoYPct),
		fmtNum(fin.NetIncomeB),
		fmtNum(fin.EPS),
		fmtNum(fin.ROEPct),
		overallSignal(b.Guidance),
	}

	if opts.Color && rt.ChangePct != nil {
		colorCols := []int{2, 3}
		for _, i := range colorCols {
			switch {
			case *rt.ChangePct < 0:
				row[i] = text.Colors{text.FgRed}.Sprintf("%v", row[i])
			case *rt.ChangePct > 0:
				row[i] = text.Colors{text.FgGreen}.Sprintf("%v", row[i])
			}
		}
	}
	return row
}

// overallSignal compresses the guidance conclusion to its leading word.
func overallSignal(g *types.ExpectationGuidance) string {
	if g == nil || g.Conclusion.Overall == "" {
		return ""
	}
	word, _, _ := strings.Cut(g.Conclusion.Overall, " ")
	return word
}

func fmtNum(v *float64) string {
	if v == nil {
		return "-"
	}
	s := strconv.FormatFloat(*v, 'f', 2, 64)
	// Trim a trailing ".00" so whole numbers read clean.
	s = strings.TrimSuffix(s, ".00")
	return s
}
