package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockpilot/backend-go/internal/cache"
	"github.com/andresuchdata/stockpilot/backend-go/internal/config"
	"github.com/andresuchdata/stockpilot/backend-go/internal/engine"
	"github.com/andresuchdata/stockpilot/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stockpilot/backend-go/internal/service"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newStoreFlag() *cli.Int64Flag {
	return &cli.Int64Flag{
		Name:     "store",
		Usage:    "Store id to process",
		Required: true,
	}
}

// appContext carries the wired services between the Before hook and the
// command actions.
type appContext struct {
	db           *postgres.DB
	cfg          *config.Config
	optimization *service.OptimizationService
	forecast     *service.ForecastService
	po           *service.POService
}

var app appContext

func initServices(c *cli.Context) error {
	db, err := postgres.NewDBFromURL(c.String("db-url"))
	if err != nil {
		return err
	}

	cfg := config.Load()

	stores := postgres.NewStoreRepository(db)
	catalog := postgres.NewCatalogRepository(db)
	sales := postgres.NewSalesRepository(db)
	suppliers := postgres.NewSupplierRepository(db)
	calendar := postgres.NewCalendarRepository(db)
	orders := postgres.NewPORepository(db)

	eng := engine.New(engine.Config{
		LookbackDays: cfg.Engine.LookbackDays,
		OrderingCost: cfg.Engine.OrderingCost,
		HoldingRate:  cfg.Engine.HoldingRate,
		NetReturns:   cfg.Engine.NetReturns,
		ABCBoundary:  engine.BoundaryMode(cfg.Engine.ABCBoundary),
		WorkerCount:  cfg.Engine.WorkerCount,
	})
	generator := engine.NewPOGenerator(engine.POConfig{
		VATRate:          cfg.Engine.VATRate,
		FreeShippingFrom: cfg.Engine.FreeShippingFrom,
		ShippingLarge:    cfg.Engine.ShippingLarge,
		ShippingMedium:   cfg.Engine.ShippingMedium,
		ShippingSmall:    cfg.Engine.ShippingSmall,
	})

	optimization := service.NewOptimizationService(stores, catalog, sales, eng, cache.NewNoopOptimizationCache(), cfg.Engine)
	forecast := service.NewForecastService(stores, catalog, sales, calendar, eng, cfg.Engine)
	po := service.NewPOService(stores, catalog, suppliers, orders, generator, optimization, forecast, nil)

	app = appContext{
		db:           db,
		cfg:          cfg,
		optimization: optimization,
		forecast:     forecast,
		po:           po,
	}
	return nil
}

func closeDB(c *cli.Context) error {
	if app.db != nil {
		return app.db.Close()
	}
	return nil
}

func runOptimize(c *cli.Context) error {
	resp, err := app.optimization.OptimizeStore(c.Context, c.Int64("store"), c.Int("lead-time"), c.Float64("service-level"))
	if err != nil {
		return err
	}

	path, err := exportOptimizationCSV(app.cfg.Engine.OutputDir, resp)
	if err != nil {
		return err
	}

	fmt.Printf("store %d: %d products optimized, %.2f annual revenue, written to %s\n",
		resp.StoreID, resp.TotalProducts, resp.TotalAnnualRevenue, path)
	if resp.Incomplete {
		fmt.Printf("warning: %d products not computed before the deadline\n", len(resp.Errors))
	}
	return nil
}

func runForecast(c *cli.Context) error {
	resp, err := app.forecast.ForecastStore(c.Context, service.ForecastRequest{
		StoreID:      c.Int64("store"),
		HorizonDays:  c.Int("horizon"),
		LeadTimeDays: c.Int("lead-time"),
		ServiceLevel: c.Float64("service-level"),
	})
	if err != nil {
		return err
	}

	path, err := exportForecastCSV(app.cfg.Engine.OutputDir, resp)
	if err != nil {
		return err
	}

	fmt.Printf("store %d: %d products forecast over %d days, written to %s\n",
		resp.StoreID, len(resp.Products), resp.HorizonDays, path)
	return nil
}

func runDraftPO(c *cli.Context) error {
	draft, err := app.po.CreateDraft(c.Context, service.CreateDraftRequest{
		StoreID:      c.Int64("store"),
		SupplierID:   c.String("supplier"),
		Source:       c.String("source"),
		LeadTimeDays: c.Int("lead-time"),
		ServiceLevel: c.Float64("service-level"),
		HorizonDays:  c.Int("horizon"),
		Notes:        c.String("notes"),
	})
	if err != nil {
		return err
	}

	fmt.Println(draft.FormattedText)
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	leadTimeFlag := &cli.IntFlag{
		Name:  "lead-time",
		Usage: "Supplier lead time in days",
		Value: 7,
	}
	serviceLevelFlag := &cli.Float64Flag{
		Name:  "service-level",
		Usage: "Target service level (0.90, 0.95, 0.99 or any value in between)",
		Value: 0.95,
	}

	cliApp := &cli.App{
		Name:  "engine",
		Usage: "Run inventory optimization batches from the command line",
		Commands: []*cli.Command{
			{
				Name:  "optimize",
				Usage: "Compute reorder policies and stock status for a store",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newStoreFlag(),
					leadTimeFlag,
					serviceLevelFlag,
				},
				Before: initServices,
				After:  closeDB,
				Action: runOptimize,
			},
			{
				Name:  "forecast",
				Usage: "Project demand for a store over a horizon",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newStoreFlag(),
					&cli.IntFlag{
						Name:  "horizon",
						Usage: "Forecast horizon in days (7, 14 or 30)",
						Value: 14,
					},
					leadTimeFlag,
					serviceLevelFlag,
				},
				Before: initServices,
				After:  closeDB,
				Action: runForecast,
			},
			{
				Name:  "draft-po",
				Usage: "Generate and persist a purchase order draft",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newStoreFlag(),
					&cli.StringFlag{
						Name:     "supplier",
						Usage:    "Supplier id",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Item source: recommendations or forecast",
						Value: service.SourceRecommendations,
					},
					&cli.IntFlag{
						Name:  "horizon",
						Usage: "Forecast horizon when source is forecast",
						Value: 14,
					},
					leadTimeFlag,
					serviceLevelFlag,
					&cli.StringFlag{
						Name:  "notes",
						Usage: "Free-form note added to the draft",
					},
				},
				Before: initServices,
				After:  closeDB,
				Action: runDraftPO,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
