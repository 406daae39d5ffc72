package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cricstats/internal/config"
	"github.com/pfrederiksen/cricstats/internal/dashboard"
	"github.com/pfrederiksen/cricstats/internal/logger"
	"github.com/pfrederiksen/cricstats/internal/scraper"
	"github.com/pfrederiksen/cricstats/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// errReported marks a failure whose message was already shown to the user
var errReported = errors.New("reported")

type options struct {
	envFile    string
	url        string
	tableClass string
	logLevel   string
	dataDir    string
	verbose    bool

	addr string

	format string
	sortBy string
	desc   bool
	limit  int
	save   string

	cfg *config.Config
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "cricstats",
		Short: "Scrape ESPNcricinfo Statsguru batting records and show them as a table",
		Long: `A tool that fetches a Statsguru batting records page, extracts the
player statistics table, and shows it in a web dashboard or on the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadConfig(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "Optional .env file with CRICSTATS_* settings")
	flags.StringVar(&opts.url, "url", "", "Statsguru results URL (default: Test batting 2000-2024)")
	flags.StringVar(&opts.tableClass, "table-class", "", "Class of candidate result tables")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.dataDir, "data-dir", "", "Data directory for saved snapshots")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newServeCmd(opts), newFetchCmd(opts), newShowCmd(opts))

	return cmd
}

// loadConfig builds the configuration from env and flags and installs the logger
func (o *options) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("url") {
		cfg.URL = o.url
	}
	if cmd.Flags().Changed("table-class") {
		cfg.TableClass = o.tableClass
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = o.dataDir
	}
	if cmd.Flags().Changed("addr") {
		cfg.ListenAddr = o.addr
	}
	if o.verbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	o.cfg = cfg
	return nil
}

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stats dashboard",
		Long: `Start the web dashboard. Every page load fetches the stats page
again and renders the table, or an error banner if the fetch fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", config.DefaultListenAddr, "Listen address")

	return cmd
}

func runServe(cmd *cobra.Command, opts *options) error {
	cfg := opts.cfg

	renderer, err := dashboard.NewHTMLRenderer()
	if err != nil {
		return err
	}

	srv := dashboard.NewServer(dashboard.Config{
		ListenAddr:  cfg.ListenAddr,
		Title:       cfg.Title,
		Description: cfg.Description,
	}, scraper.New(cfg), renderer)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Dashboard available at http://%s/\n", displayAddr(cfg.ListenAddr))
	return srv.ListenAndServe(ctx)
}

func newFetchCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the stats table once and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, opts)
		},
	}

	addOutputFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.save, "save", "", "Also save the table as a named snapshot (e.g. latest)")

	return cmd
}

func runFetch(cmd *cobra.Command, opts *options) error {
	cfg := opts.cfg

	format, err := parseFormat(opts.format)
	if err != nil {
		return err
	}

	sc := scraper.New(cfg)
	logger.Debug("Fetching stats page", logger.Fields{"url": sc.URL()})

	view := dashboard.BuildView(cmd.Context(), sc, cfg.Title, cfg.Description)
	if view.Error != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), view.Error)
		return errReported
	}

	if opts.save != "" {
		store, err := storage.New(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
		if err := store.SaveTable(view.Table, view.SourceURL, view.FetchedAt, opts.save); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		logger.Info("Saved snapshot", logger.Fields{"name": opts.save, "dir": store.Dir()})
	}

	return writeView(cmd, opts, view, format)
}

func newShowCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Print a previously saved snapshot without fetching",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := storage.DefaultName
			if len(args) == 1 {
				name = args[0]
			}
			return runShow(cmd, opts, name)
		},
	}

	addOutputFlags(cmd, opts)

	return cmd
}

func runShow(cmd *cobra.Command, opts *options, name string) error {
	cfg := opts.cfg

	format, err := parseFormat(opts.format)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	snapshot, err := store.LoadSnapshot(name)
	if err != nil {
		if errors.Is(err, storage.ErrNoSnapshot) {
			return fmt.Errorf("%w (run 'cricstats fetch --save %s' first)", err, name)
		}
		return fmt.Errorf("loading snapshot: %w", err)
	}

	view := &dashboard.View{
		Title:       cfg.Title,
		Description: cfg.Description,
		Table:       snapshot.Table,
		SourceURL:   snapshot.SourceURL,
		FetchedAt:   snapshot.FetchedAt,
	}

	return writeView(cmd, opts, view, format)
}

func addOutputFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, json or csv")
	cmd.Flags().StringVar(&opts.sortBy, "sort", "", "Sort rows by this column (numeric columns sort numerically)")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "Sort in descending order")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Only print the first N rows (0 for all)")
}

func writeView(cmd *cobra.Command, opts *options, view *dashboard.View, format OutputFormat) error {
	table := view.Table
	if opts.sortBy != "" {
		sorted, err := sortTable(table, opts.sortBy, opts.desc)
		if err != nil {
			return err
		}
		table = sorted
	}
	if opts.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	if opts.limit > 0 && opts.limit < len(table.Rows) {
		limited := *table
		limited.Rows = table.Rows[:opts.limit]
		table = &limited
	}

	out := *view
	out.Table = table
	if err := WriteOutput(cmd.OutOrStdout(), &out, format, opts.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// displayAddr turns a listen address like ":8501" into something clickable
func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// Execute runs the CLI
func Execute() {
	ctx := context.Background()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(ExitError)
	}
}
