package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	shop "goflare.io/minicart"
	"goflare.io/minicart/catalog"
	"goflare.io/minicart/config"
	"goflare.io/minicart/driver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "minicart: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minicart: failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, logger); err != nil {
		logger.Error("minicart stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	source, closeSource, err := newCatalogSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	cat, err := catalog.Load(ctx, source, cfg.Currency, logger)
	closeSource()
	if err != nil {
		return err
	}

	var svc shop.Service
	if cfg.NATSURL != "" {
		natsConn, err := driver.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			return err
		}
		defer natsConn.Close()

		if svc, err = shop.NewService(cat, natsConn, cfg.EventWorkers, logger); err != nil {
			return err
		}
	} else {
		if svc, err = shop.NewService(cat, nil, cfg.EventWorkers, logger); err != nil {
			return err
		}
	}
	defer svc.Close()

	out := bufio.NewWriter(os.Stdout)
	term := newTerminal(svc, out)
	svc.Subscribe(term.onCartChanged)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	term.printHelp()
	term.printCatalog(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok || !term.execute(ctx, line) {
				return nil
			}
		}
	}
}

// newCatalogSource returns the configured source and a func releasing its
// connection once the catalog has been read.
func newCatalogSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (catalog.Source, func(), error) {
	switch cfg.CatalogSource {
	case config.CatalogSourcePostgres:
		pool, err := driver.ConnectSQL(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		tm := driver.NewTransactionManager(pool, logger)
		return catalog.NewPostgresSource(tm, logger), pool.Close, nil

	case config.CatalogSourceRedis:
		client, err := driver.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}
		return catalog.NewRedisSource(client, cfg.CatalogKey, logger), closeClient, nil

	default:
		return catalog.DefaultSource(), func() {}, nil
	}
}
