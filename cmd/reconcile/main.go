// reconcile compara la proyección de inventario con la suma del ledger.
//
// Uso: go run ./cmd/reconcile [-repair] [-timeout 2m]
// Sale con código 2 si encontró discrepancias y no se pidió -repair.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/wms-ledger/pkg/config"
	"github.com/jhoicas/wms-ledger/pkg/logger"
)

func main() {
	repair := flag.Bool("repair", false, "corregir la proyección con los valores del ledger")
	timeout := flag.Duration("timeout", 2*time.Minute, "tiempo máximo de la reconciliación")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if cfg.DB.Driver != config.StoreDriverPostgres {
		log.Fatal().Str("store", cfg.DB.Driver).Msg("la reconciliación requiere STORE_DRIVER=postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := inventory.NewReconcileUseCase(postgres.NewTxRunner(pool), nil, log)
	report, err := uc.Reconcile(ctx, *repair)
	if err != nil {
		log.Error().Err(err).Msg("reconciliación fallida")
		pool.Close()
		os.Exit(1)
	}

	for _, d := range report.Discrepancies {
		fmt.Printf("%-20s proyección=%d ledger=%d diferencia=%d\n", d.SKU, d.ProjectedQty, d.LedgerQty, d.Difference)
	}
	fmt.Printf("SKUs revisados: %d, discrepancias: %d, reparado: %t\n",
		report.CheckedSKUs, len(report.Discrepancies), report.Repaired)

	if !report.Consistent() && !report.Repaired {
		pool.Close()
		os.Exit(2)
	}
}
