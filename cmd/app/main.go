package main

import (
	"context"
	"flag"
	"log"
	"os"

	"BarScope/internal/di"
	"BarScope/internal/usecase"
	"BarScope/pkg/config"
	applogger "BarScope/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	importPath := flag.String("import", "", "CSV export to import instead of serving")
	symbol := flag.String("symbol", "", "instrument symbol for -import")
	format := flag.String("format", "vendor", "import format: vendor or tradingview")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s backend=%s", cfg.Environment, cfg.Backend.Type)

	if *importPath != "" {
		if err := runImport(cfg, *importPath, *symbol, *format); err != nil {
			log.Fatalf("import failed: %v", err)
		}
		return
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	log.Printf("clickhouse: connected and schema ready - db: %s", cfg.ClickHouse.Database)
	log.Printf("kafka: brokers=%v topic=%s", cfg.Kafka.Brokers, cfg.Kafka.Topic)

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}

// runImport loads one historical CSV export into ClickHouse and exits.
func runImport(cfg *config.Config, path, symbol, format string) error {
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		return err
	}

	chClient, err := di.ProvideClickHouseClient(cfg)
	if err != nil {
		return err
	}
	defer chClient.Close()

	store, err := di.ProvideBarStore(chClient)
	if err != nil {
		return err
	}

	uc := usecase.NewImportCSVUseCase(store, l)
	res, err := uc.Import(context.Background(), usecase.ImportCSVParams{
		Path:           path,
		Symbol:         symbol,
		Format:         format,
		MinSessionRows: cfg.Import.MinSessionRows,
	})
	if err != nil {
		return err
	}

	l.Info("import complete",
		applogger.String("path", path),
		applogger.String("symbol", symbol),
		applogger.Int("rows", res.Rows),
		applogger.Int("sessions", res.Sessions),
		applogger.Int("dropped", res.Dropped),
	)
	return nil
}
