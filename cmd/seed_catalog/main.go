// seed_catalog importa la lista de precios XML de un proveedor: crea o actualiza los ítems por SKU
// y los mapeos proveedor ↔ ítem con precio, MOQ y lead time.
//
// Uso: go run ./cmd/seed_catalog -in pricelist.xml -supplier <id> [-charset latin1]
// Sin -charset se respeta el encoding declarado en el XML (UTF-8 o ISO-8859-1).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/supply-chain-api/internal/infrastructure/postgres"
	"github.com/jhoicas/supply-chain-api/pkg/config"
	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

func main() {
	in := flag.String("in", "pricelist.xml", "ruta de la lista de precios XML")
	supplierID := flag.String("supplier", "", "id del proveedor")
	charset := flag.String("charset", "", "forzar charset de entrada (latin1)")
	flag.Parse()

	if *supplierID == "" {
		fmt.Fprintln(os.Stderr, "falta -supplier")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed_catalog")

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal().Err(err).Str("path", *in).Msg("abrir XML")
	}
	defer f.Close()

	pl, err := parseCatalog(f, *charset)
	if err != nil {
		log.Fatal().Err(err).Str("path", *in).Msg("leer lista de precios")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	stats, err := importCatalog(ctx, postgres.NewTxRunner(pool), postgres.NewSupplierRepository(pool), *supplierID, pl, time.Now().UTC())
	if err != nil {
		log.Fatal().Err(err).Str("supplier_id", *supplierID).Msg("importar catálogo")
	}
	log.Info().
		Int("lines", len(pl.Items)).
		Int("items_created", stats.ItemsCreated).
		Int("items_updated", stats.ItemsUpdated).
		Int("mappings_created", stats.MappingsCreated).
		Int("mappings_updated", stats.MappingsUpdated).
		Int("skipped", stats.Skipped).
		Msg("catálogo importado")
}
