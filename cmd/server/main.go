package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"egg-hunt/internal/api"
	"egg-hunt/internal/catalog"
	"egg-hunt/internal/config"
	"egg-hunt/internal/hunt"
	"egg-hunt/internal/logging"
	"egg-hunt/internal/metrics"
	"egg-hunt/internal/render"
	"egg-hunt/internal/server"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "egg-hunt: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, closer, err := logging.Setup("egg-hunt", cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	// Generate host key if it doesn't exist
	if err := ensureHostKey(cfg.Server.HostKeyPath, logger); err != nil {
		return fmt.Errorf("host key: %w", err)
	}

	cat, fallback, err := catalog.LoadOrDefault(cfg.Server.CatalogPath)
	if err != nil {
		return err
	}
	if fallback {
		logger.Warn("catalog not found, using built-in discounts", "path", cfg.Server.CatalogPath)
	}
	logger.Info("catalog loaded", "discounts", len(cat.Discounts), "guaranteed", cat.Guaranteed.Code)

	m := metrics.New()
	gen := &hunt.Generator{
		Layout:  cfg.Layout,
		Catalog: cat,
		Logger:  logger.With("component", "generator"),
		Metrics: m,
	}
	loop := hunt.NewLoop(logger, m)

	ssh := server.NewSSHServer(cfg.Server, loop, server.Options{
		Generator: gen,
		Theme:     cfg.Theme,
		Banner:    render.DefaultBanner(),
		Logger:    logger,
		Metrics:   m,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(ctx) })
	g.Go(ssh.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return ssh.Shutdown(shutdownCtx)
	})

	if addr := strings.TrimSpace(cfg.Server.HTTPAddr); addr != "" {
		limiter := api.NewRateLimiter(cfg.Server.APIRate, cfg.Server.APIBurst)
		handler := api.New(api.Config{
			Generator: gen,
			Catalog:   cat,
			Theme:     cfg.Theme,
			Metrics:   m,
			Logger:    logger.With("component", "http"),
			Limiter:   limiter,
			Sessions:  loop.Len,
		})
		g.Go(func() error { return limiter.Run(ctx) })
		g.Go(func() error { return api.Serve(ctx, addr, handler, logger) })
	}

	port := strings.TrimPrefix(cfg.Server.ListenAddr, ":")
	logger.Info("egg hunt ready", "connect", fmt.Sprintf("ssh -t -p %s you@localhost", port))

	err = g.Wait()
	logger.Info("shut down", "error", err)
	return err
}

func ensureHostKey(path string, logger *slog.Logger) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	logger.Info("generating new host key", "path", path)
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}
