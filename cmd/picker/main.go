// Command picker suggests lottery numbers, prints history statistics and
// imports draw history into a SQL store.
//
// Usage:
//
//	picker pick   [-variant big] [-mode statistical|pure_chance] [-count 1] [-seed N] [-server URL]
//	picker stats  [-variant big] [-limit 10] [-server URL]
//	picker import -variant big -file draws.csv [-driver sqlite -dsn lotto.db]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/R3E-Network/lotto_picker/internal/config"
	"github.com/R3E-Network/lotto_picker/internal/history"
	"github.com/R3E-Network/lotto_picker/internal/httputil"
	"github.com/R3E-Network/lotto_picker/internal/lottery"
	"github.com/R3E-Network/lotto_picker/pkg/logger"
	"github.com/R3E-Network/lotto_picker/services/picker"
)

const usage = `usage: picker <command> [flags]

commands:
  pick    generate number selections
  stats   show frequency and pair statistics
  import  load a CSV export into the SQL history store
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "pick":
		err = runPick(ctx, args[1:], stdout, stderr)
	case "stats":
		err = runStats(ctx, args[1:], stdout, stderr)
	case "import":
		err = runImport(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "picker %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

// =============================================================================
// Shared
// =============================================================================

type commonFlags struct {
	configPath string
	server     string
	asJSON     bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "config file (default $LOTTO_CONFIG or config/picker.yaml)")
	fs.StringVar(&c.server, "server", "", "query a running picker server instead of local history")
	fs.BoolVar(&c.asJSON, "json", false, "print JSON")
}

func (c *commonFlags) load() (*config.Config, error) {
	if c.configPath != "" {
		return config.LoadFromPath(c.configPath)
	}
	return config.Load()
}

// localService builds a picker service over the configured history and loads it.
func localService(ctx context.Context, cfg *config.Config, stderr io.Writer) (*picker.Service, func(), error) {
	logCfg := cfg.Logging
	if logCfg.Level == "" || logCfg.Level == "info" {
		logCfg.Level = "warn"
	}
	log := logger.New(logCfg).Named("picker")
	log.SetOutput(stderr)

	store, closer, err := history.New(ctx, cfg.History)
	if err != nil {
		return nil, nil, err
	}
	svc, err := picker.New(picker.Config{Store: store, Logger: log, Defaults: cfg.Defaults})
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	if err := svc.Reload(ctx); err != nil {
		closer.Close()
		return nil, nil, err
	}
	return svc, func() { closer.Close() }, nil
}

func newClient(server string) *httputil.Client {
	return httputil.NewClient(httputil.ClientConfig{BaseURL: server, Timeout: 15 * time.Second})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// =============================================================================
// pick
// =============================================================================

func runPick(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pick", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var common commonFlags
	common.register(fs)
	variant := fs.String("variant", string(lottery.VariantBig), "game variant: big or power")
	mode := fs.String("mode", string(lottery.ModeStatistical), "statistical or pure_chance")
	count := fs.Int("count", 1, "number of selections")
	seed := fs.Uint64("seed", 0, "seed for reproducible output (0 = random)")
	freq := fs.Float64("freq", lottery.DefaultFreqWeight, "frequency weight [0,1]")
	co := fs.Float64("co", lottery.DefaultCoWeight, "co-occurrence weight [0,1]")
	noise := fs.Float64("noise", lottery.DefaultNoiseStrength, "noise strength [0,1]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *count < 1 {
		return fmt.Errorf("count must be at least 1")
	}

	req := picker.GenerateRequest{Variant: *variant, Mode: *mode}
	settingsSet := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "freq", "co", "noise":
			settingsSet = true
		}
	})
	if settingsSet {
		req.Settings = &lottery.Settings{FreqWeight: *freq, CoWeight: *co, NoiseStrength: *noise}
	}

	generate, cleanup, err := pickBackend(ctx, common, stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	results := make([]*picker.GenerateResponse, 0, *count)
	for i := 0; i < *count; i++ {
		r := req
		if *seed != 0 {
			s := *seed + uint64(i)
			r.Seed = &s
		}
		resp, err := generate(ctx, r)
		if err != nil {
			return err
		}
		results = append(results, resp)
	}

	if common.asJSON {
		return writeJSON(stdout, results)
	}
	for _, resp := range results {
		printSelection(stdout, resp)
	}
	return nil
}

type generateFunc func(context.Context, picker.GenerateRequest) (*picker.GenerateResponse, error)

func pickBackend(ctx context.Context, common commonFlags, stderr io.Writer) (generateFunc, func(), error) {
	if common.server != "" {
		client := newClient(common.server)
		return func(ctx context.Context, req picker.GenerateRequest) (*picker.GenerateResponse, error) {
			var resp picker.GenerateResponse
			if err := client.PostData(ctx, "/generate", req, &resp); err != nil {
				return nil, err
			}
			return &resp, nil
		}, func() {}, nil
	}

	cfg, err := common.load()
	if err != nil {
		return nil, nil, err
	}
	svc, cleanup, err := localService(ctx, cfg, stderr)
	if err != nil {
		return nil, nil, err
	}
	return svc.Generate, cleanup, nil
}

func printSelection(w io.Writer, resp *picker.GenerateResponse) {
	name := string(resp.Variant)
	if v, err := lottery.LookupVariant(resp.Variant); err == nil {
		name = fmt.Sprintf("%s (%s)", v.Name, v.ID)
	}
	line := fmt.Sprintf("%s %s: %s", name, resp.Mode, resp.Formatted)
	if resp.Secondary != nil {
		line += fmt.Sprintf(" | second zone %02d", *resp.Secondary)
	}
	fmt.Fprintf(w, "%s | luck %d | seed %d\n", line, resp.LuckScore, resp.Seed)
}

// =============================================================================
// stats
// =============================================================================

func runStats(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var common commonFlags
	common.register(fs)
	variant := fs.String("variant", string(lottery.VariantBig), "game variant: big or power")
	limit := fs.Int("limit", 10, "rows per table")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit < 1 {
		return fmt.Errorf("limit must be at least 1")
	}

	var stats lottery.VariantStats
	if common.server != "" {
		path := fmt.Sprintf("/variants/%s/stats?limit=%d", *variant, *limit)
		if err := newClient(common.server).GetData(ctx, path, &stats); err != nil {
			return err
		}
	} else {
		cfg, err := common.load()
		if err != nil {
			return err
		}
		svc, cleanup, err := localService(ctx, cfg, stderr)
		if err != nil {
			return err
		}
		defer cleanup()
		if stats, err = svc.Stats(lottery.VariantID(*variant), *limit); err != nil {
			return err
		}
	}

	if common.asJSON {
		return writeJSON(stdout, stats)
	}
	printStats(stdout, stats)
	return nil
}

func printStats(w io.Writer, stats lottery.VariantStats) {
	fmt.Fprintf(w, "%s: %d draws, range %s\n\n", stats.Variant, stats.DrawCount, stats.Range)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tCOUNT\tSCORE")
	for _, n := range stats.TopNumbers {
		fmt.Fprintf(tw, "%02d\t%d\t%.2f\n", n.Number, n.Count, n.Score)
	}
	tw.Flush()

	if len(stats.TopPairs) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAIR\tCOUNT")
	for _, p := range stats.TopPairs {
		fmt.Fprintf(tw, "%02d-%02d\t%d\n", p.A, p.B, p.Count)
	}
	tw.Flush()
}

// =============================================================================
// import
// =============================================================================

func runImport(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "config file (default $LOTTO_CONFIG or config/picker.yaml)")
	variantID := fs.String("variant", "", "game variant: big or power")
	file := fs.String("file", "", "CSV export to import")
	driver := fs.String("driver", "", "override history driver (postgres or sqlite)")
	dsn := fs.String("dsn", "", "override history DSN")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" || *variantID == "" {
		return fmt.Errorf("-variant and -file are required")
	}

	variant, err := lottery.LookupVariant(lottery.VariantID(*variantID))
	if err != nil {
		return err
	}

	cfg, err := (&commonFlags{configPath: *configPath}).load()
	if err != nil {
		return err
	}
	if *driver != "" {
		cfg.History.Driver = history.Driver(*driver)
	}
	if *dsn != "" {
		cfg.History.DSN = *dsn
	}
	if cfg.History.Driver != history.DriverPostgres && cfg.History.Driver != history.DriverSQLite {
		return fmt.Errorf("import needs a postgres or sqlite history driver, got %q", cfg.History.Driver)
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := history.ParseCSV(f, variant)
	if err != nil {
		return fmt.Errorf("%s: %w", *file, err)
	}

	store, closer, err := history.New(ctx, cfg.History)
	if err != nil {
		return err
	}
	defer closer.Close()

	writer, ok := store.(history.Writer)
	if !ok {
		return fmt.Errorf("history driver %q is read-only", cfg.History.Driver)
	}
	n, err := writer.SaveDraws(ctx, variant, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "imported %d %s draws from %s\n", n, variant.ID, *file)
	return nil
}
