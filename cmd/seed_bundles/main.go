// seed_bundles genera un script SQL idempotente para bundle_components
// a partir de un CSV exportado del catálogo (bundle_sku, component_sku, qty_per_bundle).
//
// Uso: go run ./cmd/seed_bundles [-encoding utf-8|euc-kr|latin1] [-out ruta.sql] [ruta/bundles.csv]
// Por defecto lee bundles.csv en el directorio actual y escribe
// internal/infrastructure/postgres/seeds/bundle_components.sql
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

func main() {
	encoding := flag.String("encoding", "utf-8", "codificación del CSV: utf-8, euc-kr o latin1")
	outFlag := flag.String("out", "", "archivo SQL de salida")
	flag.Parse()

	csvPath := "bundles.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseCSV(f, *encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := *outFlag
	if outPath == "" {
		outPath = filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "seeds", "bundle_components.sql")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d componentes en %d bundles\n", outPath, len(rows), countBundles(rows))
}

// decoderFor envuelve r con el decodificador del charset pedido.
func decoderFor(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "euc-kr", "euckr", "cp949":
		return transform.NewReader(r, korean.EUCKR.NewDecoder()), nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %q", encoding)
	}
}

// parseCSV lee filas bundle_sku,component_sku,qty_per_bundle. La primera fila es cabecera
// si su tercera columna no es numérica. Filas repetidas: gana la última.
func parseCSV(r io.Reader, encoding string) ([]entity.BundleComponent, error) {
	dr, err := decoderFor(r, encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(dr)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	byKey := make(map[[2]string]entity.BundleComponent)
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperaban 3 columnas, hay %d", line, len(rec))
		}
		bundle := strings.TrimSpace(strings.TrimPrefix(rec[0], "\ufeff"))
		component := strings.TrimSpace(rec[1])
		qty, err := strconv.ParseInt(strings.TrimSpace(rec[2]), 10, 64)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("línea %d: qty_per_bundle inválido %q", line, rec[2])
		}
		switch {
		case bundle == "" || component == "":
			return nil, fmt.Errorf("línea %d: SKU vacío", line)
		case bundle == component:
			return nil, fmt.Errorf("línea %d: el bundle %s no puede contenerse a sí mismo", line, bundle)
		case qty <= 0:
			return nil, fmt.Errorf("línea %d: qty_per_bundle debe ser positivo", line)
		}
		byKey[[2]string{bundle, component}] = entity.BundleComponent{
			BundleSKU: bundle, ComponentSKU: component, QtyPerBundle: qty,
		}
	}

	out := make([]entity.BundleComponent, 0, len(byKey))
	for _, c := range byKey {
		out = append(out, c)
	}
	// Orden estable para que el script sea reproducible
	sort.Slice(out, func(i, j int) bool {
		if out[i].BundleSKU != out[j].BundleSKU {
			return out[i].BundleSKU < out[j].BundleSKU
		}
		return out[i].ComponentSKU < out[j].ComponentSKU
	})
	return out, nil
}

func writeSQL(w io.Writer, rows []entity.BundleComponent) error {
	var b strings.Builder
	b.WriteString("-- Composición de bundles\n")
	b.WriteString("-- Generado por cmd/seed_bundles\n\n")
	if len(rows) == 0 {
		b.WriteString("-- (sin filas)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("INSERT INTO bundle_components (bundle_sku, component_sku, qty_per_bundle) VALUES\n")
	for i, c := range rows {
		sep := ","
		if i == len(rows)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  ('%s', '%s', %d)%s\n", escapeSQL(c.BundleSKU), escapeSQL(c.ComponentSKU), c.QtyPerBundle, sep)
	}
	b.WriteString("ON CONFLICT (bundle_sku, component_sku) DO UPDATE SET qty_per_bundle = EXCLUDED.qty_per_bundle;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func countBundles(rows []entity.BundleComponent) int {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.BundleSKU] = struct{}{}
	}
	return len(seen)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
