package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/jwt"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

type ctxKey string

const poolKey ctxKey = "pool"

func newCompanyFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "company",
		Usage:    "ID de la empresa",
		Required: true,
		EnvVars:  []string{"LEDGER_COMPANY_ID"},
	}
}

func openPool(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	pool, err := postgres.NewPool(c.Context, cfg.DB)
	if err != nil {
		return err
	}
	c.Context = context.WithValue(c.Context, poolKey, pool)
	return nil
}

func closePool(c *cli.Context) error {
	if pool, ok := c.Context.Value(poolKey).(*pgxpool.Pool); ok && pool != nil {
		pool.Close()
	}
	return nil
}

func poolFrom(c *cli.Context) *pgxpool.Pool {
	pool, _ := c.Context.Value(poolKey).(*pgxpool.Pool)
	return pool
}

func main() {
	log := logger.New(logger.Config{Env: "development", Level: os.Getenv("LOG_LEVEL")})

	app := &cli.App{
		Name:  "ledgerctl",
		Usage: "Tareas operativas del libro de inventario",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Aplica las migraciones pendientes",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "down", Usage: "Revierte todas las migraciones"},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return fmt.Errorf("cargar configuración: %w", err)
					}
					run := postgres.MigrateUp
					if c.Bool("down") {
						run = postgres.MigrateDown
					}
					res, err := run(cfg.DB.ConnectionString())
					if err != nil {
						return err
					}
					if !res.Changed {
						log.Info().Uint("version", res.Version).Msg("esquema al día")
						return nil
					}
					log.Info().Uint("version", res.Version).Bool("dirty", res.Dirty).Msg("migraciones aplicadas")
					return nil
				},
			},
			{
				Name:  "audit",
				Usage: "Verifica cantidades, estados, stock y deuda neta de los lotes de una empresa",
				Flags: []cli.Flag{
					newCompanyFlag(),
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Productos auditados en paralelo",
						Value: 4,
					},
				},
				Before: openPool,
				After:  closePool,
				Action: runAudit(log),
			},
			{
				Name:  "token",
				Usage: "Emite un token de desarrollo firmado con JWT_SECRET",
				Flags: []cli.Flag{
					newCompanyFlag(),
					&cli.StringFlag{Name: "user", Usage: "ID del usuario", Value: "dev-user"},
					&cli.StringFlag{Name: "role", Usage: "admin | bodeguero | vendedor", Value: "admin"},
					&cli.DurationFlag{Name: "ttl", Usage: "Vigencia del token", Value: 12 * time.Hour},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return fmt.Errorf("cargar configuración: %w", err)
					}
					if cfg.App.Env == "production" {
						return cli.Exit("token solo está disponible fuera de production", 1)
					}
					tok, err := jwt.Generate(cfg.JWT.Secret, jwt.Identity{
						UserID:    c.String("user"),
						CompanyID: c.String("company"),
						Role:      c.String("role"),
					}, cfg.JWT.Issuer, c.Duration("ttl"))
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, tok)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("ledgerctl")
		os.Exit(1)
	}
}

func runAudit(log *logger.Logger) cli.ActionFunc {
	return func(c *cli.Context) error {
		pool := poolFrom(c)
		uc := inventory.NewAuditUseCase(
			postgres.NewProductRepository(pool),
			postgres.NewStockBatchRepository(pool),
			postgres.NewFinanceEntryRepository(pool),
			c.Int("concurrency"),
		)
		report, err := uc.AuditCompany(c.Context, c.String("company"))
		if err != nil {
			return err
		}
		for _, v := range report.Valuations {
			log.Info().
				Str("product_id", v.ProductID).
				Str("sku", v.SKU).
				Int("units", v.Units).
				Str("total_value", v.TotalValue.StringFixed(2)).
				Str("average_cost", v.AverageCost.StringFixed(2)).
				Msg("valorización")
		}
		for _, issue := range report.Issues {
			log.Warn().
				Str("product_id", issue.ProductID).
				Str("batch_id", issue.BatchID).
				Str("kind", issue.Kind).
				Msg(issue.Detail)
		}
		log.Info().
			Str("company_id", report.CompanyID).
			Int("products", report.Products).
			Int("batches", report.Batches).
			Str("total_value", report.TotalValue.StringFixed(2)).
			Int("issues", len(report.Issues)).
			Msg("auditoría terminada")
		if !report.OK() {
			return cli.Exit("se encontraron inconsistencias", 2)
		}
		return nil
	}
}
