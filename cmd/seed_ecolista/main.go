// seed_ecolista carga productos desde un CSV y los fusiona en eco_lista con la misma
// regla de upsert que la API (clave nombre_producto + categoria).
//
// Uso: go run ./cmd/seed_ecolista [-latin1] ruta/productos.csv
// Columnas: nombre_producto,categoria,impacto_ambiental,sugerencia_sostenible[,cantidad]
// Los valores se guardan tal cual (sin recortar espacios).
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/ecolista-api/internal/application/dto"
	"github.com/jhoicas/ecolista-api/internal/application/usecase"
	"github.com/jhoicas/ecolista-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ecolista-api/pkg/config"
	"github.com/jhoicas/ecolista-api/pkg/logger"
)

type upserter interface {
	Upsert(ctx context.Context, in dto.UpsertProductRequest) (*usecase.UpsertResult, error)
}

type seedStats struct {
	creados      int
	actualizados int
}

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo está en ISO-8859-1")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_ecolista [-latin1] productos.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	uc := usecase.NewProductUseCase(postgres.NewProductRepository(pool), log)
	stats, err := seed(ctx, decodeInput(f, *latin1), uc)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	fmt.Printf("Seed completo: %d creados, %d actualizados\n", stats.creados, stats.actualizados)
}

func decodeInput(r io.Reader, latin1 bool) io.Reader {
	if latin1 {
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	return r
}

func seed(ctx context.Context, r io.Reader, uc upserter) (seedStats, error) {
	var stats seedStats
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return stats, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))] = i
	}
	for _, req := range []string{"nombre_producto", "categoria", "impacto_ambiental", "sugerencia_sostenible"} {
		if _, ok := cols[req]; !ok {
			return stats, fmt.Errorf("falta la columna %q", req)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			// csv.ParseError ya informa la línea.
			return stats, fmt.Errorf("leer CSV: %w", err)
		}
		// Línea donde empieza el registro; un campo entre comillas puede ocupar varias.
		line, _ := cr.FieldPos(0)
		in := dto.UpsertProductRequest{
			NombreProducto:       field(rec, "nombre_producto"),
			Categoria:            field(rec, "categoria"),
			ImpactoAmbiental:     field(rec, "impacto_ambiental"),
			SugerenciaSostenible: field(rec, "sugerencia_sostenible"),
		}
		if raw := strings.TrimSpace(field(rec, "cantidad")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return stats, fmt.Errorf("línea %d: cantidad %q inválida", line, raw)
			}
			in.Cantidad = &n
		}
		res, err := uc.Upsert(ctx, in)
		if err != nil {
			return stats, fmt.Errorf("línea %d: %w", line, err)
		}
		if res.Created {
			stats.creados++
		} else {
			stats.actualizados++
		}
	}
}
