package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-journey/internal/config"
	"github.com/KirkDiggler/rpg-journey/internal/console"
	"github.com/KirkDiggler/rpg-journey/internal/content"
	"github.com/KirkDiggler/rpg-journey/internal/input"
	"github.com/KirkDiggler/rpg-journey/internal/logging"
	"github.com/KirkDiggler/rpg-journey/internal/metrics"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-journey/internal/redis"
	"github.com/KirkDiggler/rpg-journey/internal/repositories/encounters"
	"github.com/KirkDiggler/rpg-journey/internal/repositories/saves"
	"github.com/KirkDiggler/rpg-journey/internal/session"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start a game",
		Long:  `Create a hero, or load the saved one, and adventure from camp.`,
		RunE:  runPlay,
	}

	cmd.Flags().String("name", "Hero", "hero name")
	cmd.Flags().String("class", "Warrior", "hero class (Warrior, Tank or Mage)")
	cmd.Flags().Bool("continue", false, "load the saved hero instead of creating one")
	return cmd
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	slog.SetDefault(logging.Setup("rpg-journey", version, cfg.Log.Format, cfg.Log.Level, cmd.ErrOrStderr()))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, journal, closeStore, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		srv := metrics.NewServer(cfg.Metrics.Addr, m)
		if _, err := srv.Start(); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				slog.Warn("metrics server did not stop cleanly", "error", err)
			}
		}()
	}

	catalog, err := content.Load()
	if err != nil {
		return err
	}

	bridge := input.NewBridge(nil)
	defer bridge.Close()

	con, err := console.New(&console.Config{
		Bridge: bridge,
		In:     cmd.InOrStdin(),
		Out:    cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}
	bridge.SetHandler(con.Handler())

	serveCtx, stopServe := context.WithCancel(ctx)
	served := make(chan struct{})
	go func() {
		defer close(served)
		con.Serve(serveCtx)
	}()
	defer func() {
		stopServe()
		<-served
	}()

	sess, err := session.New(&session.Config{
		Catalog:           catalog,
		Saves:             store,
		Journal:           journal,
		Bridge:            bridge,
		Metrics:           m,
		Rules:             &cfg.Combat,
		Pacing:            &cfg.Pacing,
		Emergency:         &cfg.Emergency,
		Progression:       &cfg.Progression,
		Rewards:           &cfg.Encounter.Rewards,
		Slot:              cfg.Save.Slot,
		MaxEncounters:     cfg.Encounter.MaxEncounters,
		ReactionTimeout:   cfg.Encounter.ReactionTimeout,
		InventoryCapacity: cfg.Encounter.InventoryCapacity,
		OnLog:             con.Println,
	})
	if err != nil {
		return err
	}
	defer sess.Dispose()

	if err := startHero(ctx, cmd, sess); err != nil {
		return err
	}

	g := &game{
		session: sess,
		bridge:  bridge,
		console: con,
		catalog: catalog,
	}
	return g.run(ctx)
}

func startHero(ctx context.Context, cmd *cobra.Command, sess *session.Session) error {
	resume, err := cmd.Flags().GetBool("continue")
	if err != nil {
		return err
	}
	if resume {
		if _, err := sess.LoadGame(ctx); err == nil {
			return nil
		}
		cmd.Println("No save found, starting a new hero.")
	}

	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	class, err := cmd.Flags().GetString("class")
	if err != nil {
		return err
	}
	_, err = sess.InitHero(name, class)
	return err
}

// openStores returns the configured save and journal repositories and their
// cleanup
func openStores(ctx context.Context, cfg *config.Config) (saves.Repository, encounters.Repository, func(), error) {
	if cfg.Save.Store != config.StoreRedis {
		return saves.NewInMemory(clock.New()), encounters.NewInMemory(), func() {}, nil
	}

	client, err := connectRedis(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	closeClient := func() { _ = client.Close() }

	store, err := saves.NewRedis(&saves.RedisConfig{Client: client})
	if err != nil {
		closeClient()
		return nil, nil, nil, err
	}
	journal, err := encounters.NewRedis(&encounters.RedisConfig{Client: client})
	if err != nil {
		closeClient()
		return nil, nil, nil, err
	}
	return store, journal, closeClient, nil
}

func connectRedis(ctx context.Context, cfg *config.Config) (redis.Client, error) {
	return redis.Connect(ctx, &redis.ConnectConfig{
		Endpoint: cfg.Redis.Endpoint,
		Options:  &cfg.Redis.Options,
		Attempts: cfg.Redis.ConnectAttempts,
		Backoff:  cfg.Redis.ConnectBackoff,
	})
}
