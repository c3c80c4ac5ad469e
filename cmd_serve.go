package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"combatlog_check/analysis"
	"combatlog_check/analysis/wcl"
	"combatlog_check/analysispool"
	"combatlog_check/cache"
	"combatlog_check/config"
	"combatlog_check/frontend"
	"combatlog_check/logger"
	"combatlog_check/share"

	"github.com/dpapathanasiou/go-recaptcha"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (overrides LISTEN_ADDR)")
	serveCmd.Flags().Bool("pretty", false, "human readable logs")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("listen"); v != "" {
		cfg.ListenAddr = v
	}

	pretty, _ := cmd.Flags().GetBool("pretty")
	logger.Setup(cfg.LogLevel, pretty)

	if err := cfg.RequireWCL(); err != nil {
		return err
	}

	if err := share.InitSentry(cfg.SentryDSN); err != nil {
		return err
	}
	defer share.FlushSentry()

	data, err := loadGameData(cfg)
	if err != nil {
		return err
	}

	events, err := cache.NewStorage(filepath.Join(cfg.CacheDir, "events"), cfg.CacheTTL)
	if err != nil {
		return err
	}
	results, err := cache.NewStorage(filepath.Join(cfg.CacheDir, "results"), cfg.CacheTTL, data.abilitiesData, data.presetsData)
	if err != nil {
		return err
	}

	client := wcl.New(wcl.Options{
		Endpoint:     cfg.WCLEndpoint,
		TokenURL:     cfg.WCLTokenURL,
		ClientID:     cfg.WCLClientID,
		ClientSecret: cfg.WCLClientSecret,
		Events:       events,
	})

	analyzer := &analysis.Analyzer{
		Source:    client,
		Presets:   data.presets,
		Abilities: data.abilities,
		Workers:   config.Workers(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := analysispool.New(analyzer, results)
	pool.Start(ctx)

	if cfg.RecaptchaSecret != "" {
		recaptcha.Init(cfg.RecaptchaSecret)
	}

	gin.SetMode(gin.ReleaseMode)
	g := gin.New()

	s := &frontend.Server{
		Pool:      pool,
		Presets:   data.presets,
		Abilities: data.abilities,
		Recaptcha: cfg.RecaptchaSecret != "",
	}
	s.Route(g)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: g,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.ListenAddr).Strs("presets", data.presets.Names()).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}
	return nil
}
