// cmd/discord/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artemetr/discord-karaoke-bot/internal/command"
	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/discord"
	"github.com/artemetr/discord-karaoke-bot/internal/event"
	"github.com/artemetr/discord-karaoke-bot/internal/logger"
	"github.com/artemetr/discord-karaoke-bot/internal/metrics"
	"github.com/artemetr/discord-karaoke-bot/internal/middleware"
	"github.com/artemetr/discord-karaoke-bot/internal/storage"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "event configuration file (overrides EVENT_CONFIG)")
	envFile := pflag.String("env", "", "extra .env file to load before the environment is read")
	pflag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		fmt.Fprintln(os.Stderr, "karaoke bot:", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	if envFile != "" {
		if err := godotenv.Overload(envFile); err != nil {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	if configPath != "" {
		cfg.EventConfig = configPath
	}

	log, closer, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closer.Close()

	eventCfg, err := config.LoadEvent(cfg.EventConfig)
	if err != nil {
		return err
	}

	log.Info().Str("guild", eventCfg.Guild.ID).Str("prefix", eventCfg.CommandPrefix).Msg("starting karaoke bot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(ctx, cfg.StoragePath)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.NewManager(metrics.WithGoCollector())
	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, m, log)
	}

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	p := discord.NewPlatform(dg, discord.NewLimiter(cfg.APIRate, cfg.APIRateMax))
	ev := event.New(eventCfg, p, event.WithLogger(log), event.WithMetrics(m))

	chain := middleware.Chain(ev, p, store, log, m)
	registry := cmd.NewRegistry()
	for _, c := range command.All(ev, p, store) {
		if err := registry.Register(chain(c)); err != nil {
			return err
		}
	}

	bot := discord.NewBot(dg, p, ev, registry, log)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("discord bot error")
			return err
		}
	}

	log.Info().Msg("discord bot exited cleanly")
	return nil
}

func serveMetrics(ctx context.Context, addr string, m *metrics.Manager, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server failed")
	}
}
