package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/komsit37/sk/pkg/sk/cache"
	"github.com/komsit37/sk/pkg/sk/fetch"
	"github.com/komsit37/sk/pkg/sk/filter"
	"github.com/komsit37/sk/pkg/sk/render"
	"github.com/komsit37/sk/pkg/sk/symbols"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sk [symbols...]",
		Short: "Fetch and reconcile multi-source stock data",
		Long: "sk fetches realtime quotes, financial statements, forward " +
			"estimates and news for the given symbols, reconciles the sources " +
			"and renders the result as a table, JSON or a symbol list.",
		SilenceUsage: true,
		RunE:         run,
	}

	f := cmd.Flags()
	f.String("output", "table", "output format: table|json|syms")
	f.Bool("pretty", false, "indent JSON output")
	f.Bool("refresh", false, "bypass the financial cache")
	f.String("file", "", "YAML symbols file (merged with positional symbols)")
	f.String("finnhub-key", "", "finnhub API key (or SK_FINNHUB_API_KEY)")
	f.Int("timeout", 20, "per-request timeout in seconds")
	f.String("cache-dir", "", "financial cache directory (default: user cache dir)")
	f.Float64("ttl-hours", fetch.DefaultTTL.Hours(), "financial cache TTL in hours; 0 disables reads")
	f.Bool("no-color", false, "disable table colors")
	f.Int("max-col-width", 0, "max table column width (default: from terminal)")
	f.String("sections", "", "JSON sections to keep: exact list, glob or /regex/")
	f.BoolP("verbose", "v", false, "debug logging")

	viper.SetEnvPrefix("SK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(f)

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	// A local .env can carry SK_FINNHUB_API_KEY and friends.
	_ = godotenv.Load()

	level := log.InfoLevel
	if viper.GetBool("verbose") {
		level = log.DebugLevel
	}
	log.DefaultLogger = log.Logger{
		Level:  level,
		Writer: &log.ConsoleWriter{ColorOutput: !viper.GetBool("no-color")},
	}

	syms := append([]string(nil), args...)
	if file := viper.GetString("file"); file != "" {
		fromFile, err := symbols.Load(file)
		if err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
		syms = append(syms, fromFile...)
	}

	store := openCache()
	defer store.Close()

	o := fetch.New(store, fetch.Options{
		FinnhubKey: firstNonEmpty(viper.GetString("finnhub-key"), viper.GetString("finnhub_api_key")),
		Refresh:    viper.GetBool("refresh"),
		TTL:        time.Duration(viper.GetFloat64("ttl-hours") * float64(time.Hour)),
		Timeout:    time.Duration(viper.GetInt("timeout")) * time.Second,
	})

	bundles, err := o.FetchMany(cmd.Context(), syms)
	if err != nil {
		return err
	}

	sections, err := filter.Parse(viper.GetString("sections"))
	if err != nil {
		return fmt.Errorf("parse --sections: %w", err)
	}
	opts := render.RenderOptions{
		Sections:    sections,
		Color:       !viper.GetBool("no-color"),
		PrettyJSON:  viper.GetBool("pretty"),
		MaxColWidth: maxColWidth(),
	}

	var r render.Renderer
	switch out := viper.GetString("output"); out {
	case "table":
		r = render.NewTableRenderer()
	case "json":
		r = render.NewJSONRenderer()
	case "syms":
		r = render.NewSymsRenderer()
	default:
		return fmt.Errorf("unknown output %q (want table, json or syms)", out)
	}
	return r.Render(os.Stdout, bundles, opts)
}

// openCache opens the persistent financial cache; a failure degrades to
// uncached fetching rather than aborting the run.
func openCache() *cache.Store {
	dir := viper.GetString("cache-dir")
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			log.Warn().Err(err).Msg("no user cache dir, running uncached")
			return nil
		}
		dir = filepath.Join(base, "sk")
	}
	store, err := cache.Open(dir)
	if err != nil {
		log.Warn().Str("dir", dir).Err(err).Msg("cache open failed, running uncached")
		return nil
	}
	return store
}

func maxColWidth() int {
	if w := viper.GetInt("max-col-width"); w > 0 {
		return w
	}
	if tw := detectTerminalWidth(); tw > 0 {
		// Leave room for the fixed numeric columns.
		w := tw / 4
		if w > 40 {
			w = 40
		}
		if w >= 10 {
			return w
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
