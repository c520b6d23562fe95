package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/riskgate/bus"
	"github.com/rustyeddy/riskgate/config"
	"github.com/rustyeddy/riskgate/journal"
	"github.com/rustyeddy/riskgate/lock"
	"github.com/rustyeddy/riskgate/logger"
	"github.com/rustyeddy/riskgate/pipeline"
	"github.com/rustyeddy/riskgate/risk"
	"github.com/rustyeddy/riskgate/server"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the admission pipeline",
	Long: `Run the risk admission pipeline: subscribe to strategy signals and
execution fills on the bus, serve the read-only HTTP surface, and persist
ledger state through the journal.

Example:
  riskgate run --config riskgate.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if runConfigPath != "" {
		var err error
		cfg, err = config.LoadFromFile(runConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	logger.SetLevel(cfg.Log.Level)

	var j journal.Journal
	var err error
	if cfg.Journal.Type == "sqlite" {
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	} else {
		j = journal.NewMemory()
	}
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	var locks lock.Lock
	if cfg.Lock.Type == "redis" {
		locks = lock.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.Lock.RedisAddr}), cfg.Lock.Prefix)
	} else {
		locks = lock.NewLocal()
	}
	defer locks.Close()

	var remote risk.BuyingPowerSource
	if cfg.Remote.URL != "" {
		remote = server.NewClient(cfg.Remote.URL)
	}

	ttl, _ := cfg.Pipeline.ParsePendingTTL()
	pl := pipeline.New(pipeline.Options{
		Limits:         cfg.Risk,
		Journal:        j,
		Locks:          locks,
		Remote:         remote,
		InitialCapital: cfg.Capital.InitialCapital,
		PendingTTL:     ttl,
		SnapshotEvery:  cfg.Pipeline.SnapshotEvery,
	})

	if err := pl.RestoreSession(cfg.Session.ID); err != nil {
		return fmt.Errorf("restore session %s: %w", cfg.Session.ID, err)
	}
	if st, ok := pl.State(cfg.Session.ID); ok && st.TotalTrades == 0 && cfg.Capital.CurrentEquity > 0 {
		if err := pl.SeedSession(cfg.Session.ID, cfg.Capital.CurrentEquity, cfg.Capital.PeakEquity); err != nil {
			return fmt.Errorf("seed session %s: %w", cfg.Session.ID, err)
		}
	}

	conn, err := bus.Connect(cfg.Bus, pl)
	if err != nil {
		return fmt.Errorf("connect bus: %w", err)
	}
	defer conn.Close()
	pl.SetPublisher(conn)

	srv := server.New(cfg.Server, pl)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.L().Info("riskgate starting",
		"session", cfg.Session.ID, "capital", cfg.Capital.InitialCapital,
		"journal", cfg.Journal.Type, "bus", cfg.Bus.URL, "http", cfg.Server.Addr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return conn.Run(ctx) })
	g.Go(func() error { return srv.Run(ctx) })

	return g.Wait()
}
