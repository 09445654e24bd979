package main

import (
	"flag"
	"time"

	"go.uber.org/zap"

	"supplyperf/database"
	"supplyperf/internal/config"
	"supplyperf/internal/shared/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("Invalid configuration", zap.Error(err))
	}

	seed := database.DefaultSeedConfig()
	var (
		outDir = flag.String("out", cfg.Data.Dir, "directory for the CSV files")
		toCSV  = flag.Bool("csv", true, "write supplier_master.csv, PO.csv and GR.csv")
		toDB   = flag.Bool("db", cfg.Data.Source == "postgres", "load the tables into PostgreSQL")
	)
	flag.IntVar(&seed.Suppliers, "suppliers", seed.Suppliers, "number of suppliers")
	flag.IntVar(&seed.Months, "months", seed.Months, "months of history ending today")
	flag.IntVar(&seed.OrdersPerSupplier, "orders", seed.OrdersPerSupplier, "mean purchase orders per supplier")
	flag.Int64Var(&seed.Seed, "seed", seed.Seed, "random seed")
	flag.Parse()

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: "supplyperf-seed",
	}); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.GetLogger()

	start := time.Now()
	data := database.Generate(seed)
	log.Info("Dataset generated",
		zap.Int("suppliers", len(data.Suppliers)),
		zap.Int("purchase_orders", len(data.Orders)),
		zap.Int("goods_receipts", len(data.Receipts)),
		zap.Int64("seed", seed.Seed),
	)

	if *toCSV {
		if err := database.WriteCSV(*outDir, data); err != nil {
			log.Fatal("Writing CSV files failed", zap.Error(err))
		}
		log.Info("CSV files written", zap.String("dir", *outDir))
	}

	if *toDB {
		if err := database.Init(cfg.DB); err != nil {
			log.Fatal("Database connection failed", zap.Error(err))
		}
		defer database.Close()

		if err := database.SeedDatabase(database.DB, data); err != nil {
			log.Fatal("Seeding database failed", zap.Error(err))
		}
		log.Info("Database seeded", zap.String("host", cfg.DB.Host), zap.String("name", cfg.DB.Name))
	}

	log.Info("Seed finished", zap.Duration("elapsed", time.Since(start)))
}
