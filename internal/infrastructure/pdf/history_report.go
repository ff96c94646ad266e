// Package pdf genera el reporte imprimible del historial de movimientos.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + filtro       │  fecha de generación       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: movimientos / entradas / neto por tipo            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Por movimiento: cabecera (fecha, tipo, motivo, memo)       │
//	│    TABLA: Origen | SKU | Producto | Cantidad | Nota         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// HistoryReportGenerator implementa inventory.HistoryReportRenderer usando Maroto v2.
type HistoryReportGenerator struct{}

var _ inventory.HistoryReportRenderer = (*HistoryReportGenerator)(nil)

// NewHistoryReportGenerator construye el generador.
func NewHistoryReportGenerator() *HistoryReportGenerator { return &HistoryReportGenerator{} }

// RenderHistory genera el PDF del historial y devuelve sus bytes.
func (g *HistoryReportGenerator) RenderHistory(
	_ context.Context,
	filterSKU string,
	rows []entity.HistoryRow,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Historial de movimientos", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(filterSKU, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRows(rows)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin movimientos para el filtro indicado.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	for _, h := range rows {
		m.AddRows(movementHeaderRow(h))
		m.AddRows(tableHeaderRow())
		m.AddRows(entryRows(h.Entries)...)
		m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.1}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(filterSKU string, generatedAt time.Time) core.Row {
	filter := "Todos los SKUs"
	if filterSKU != "" {
		filter = "SKU: " + filterSKU
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("HISTORIAL DE MOVIMIENTOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(filter, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// summaryRows: cantidad de movimientos por tipo.
func summaryRows(rows []entity.HistoryRow) []core.Row {
	byType := make(map[entity.MovementType]int)
	entries := 0
	for _, h := range rows {
		byType[h.MovementType]++
		entries += len(h.Entries)
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, string(t))
	}
	sort.Strings(types)

	out := []core.Row{
		row.New(7).Add(col.New(12).Add(text.New(
			fmt.Sprintf("Movimientos: %d   |   Entradas: %d", len(rows), entries),
			props.Text{Style: fontstyle.Bold, Size: 9, Top: 1},
		))),
	}
	for _, t := range types {
		out = append(out, row.New(5).Add(
			col.New(3).Add(text.New(t, props.Text{Size: 8, Left: 2})),
			col.New(2).Add(text.New(strconv.Itoa(byType[entity.MovementType(t)]), props.Text{Size: 8, Align: align.Right})),
			col.New(7),
		))
	}
	return out
}

func movementHeaderRow(h entity.HistoryRow) core.Row {
	title := fmt.Sprintf("%s  %s", h.MovedAt.Format("02/01/2006 15:04"), h.MovementType)
	if h.ReasonCode != "" {
		title += "  ·  " + nonEmpty(h.ReasonLabel, h.ReasonCode)
	}
	sub := nonEmpty(h.Memo, "-")
	if h.ReversalOf != "" {
		sub += "  (reverso de " + h.ReversalOf + ")"
	}
	if h.ReversedBy != "" {
		sub += "  (revertido por " + h.ReversedBy + ")"
	}
	return row.New(11).Add(
		col.New(9).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}),
			text.New(sub, props.Text{Size: 7.5, Color: colorGray, Top: 6}),
		),
		col.New(3).Add(
			text.New(nonEmpty(h.CreatedBy, "-"), props.Text{Size: 7.5, Align: align.Right, Color: colorGray, Top: 1}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: a, Color: colorPrimary, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Origen", 2, align.Left),
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Cantidad", 2, align.Right),
		h("Nota", 2, align.Left),
	)
}

func entryRows(entries []entity.HistoryEntry) []core.Row {
	out := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		origin := "línea"
		if e.Kind == entity.EntryEffect {
			origin = "efecto ← " + e.SourceSKU
		}
		qtyProps := props.Text{Size: 8, Align: align.Right, Top: 0.5, Right: 1}
		if e.QtyChange < 0 {
			qtyProps.Color = colorRed
		}
		out = append(out, row.New(5).Add(
			col.New(2).Add(text.New(origin, props.Text{Size: 7.5, Top: 0.5, Left: 1})),
			col.New(2).Add(text.New(e.SKU, props.Text{Size: 8, Top: 0.5, Left: 1})),
			col.New(4).Add(text.New(nonEmpty(e.ProductName, "-"), props.Text{Size: 8, Top: 0.5, Left: 1})),
			col.New(2).Add(text.New(formatQty(e.QtyChange), qtyProps)),
			col.New(2).Add(text.New(e.Note, props.Text{Size: 7, Top: 0.5, Left: 1, Color: colorGray})),
		))
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty inserta puntos de miles y conserva el signo.
// Ej: 25000 → "+25.000", -1200 → "-1.200", 0 → "0"
func formatQty(n int64) string {
	if n == 0 {
		return "0"
	}
	sign := "+"
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	l := len(s)
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
