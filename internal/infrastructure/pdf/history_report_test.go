package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

func TestFormatQty(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		7:        "+7",
		-1200:    "-1.200",
		25000:    "+25.000",
		-1000000: "-1.000.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatQty(in), "formatQty(%d)", in)
	}
}

func TestRenderHistory_GeneraPDF(t *testing.T) {
	rows := []entity.HistoryRow{{
		MovementID:   "m-1",
		MovementType: entity.MovementBundle,
		ReasonCode:   entity.ReasonBundleCreate,
		ReasonLabel:  "Armado de bundle",
		Memo:         "armado de bundle: K x 2",
		MovedAt:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		CreatedBy:    "operador",
		Entries: []entity.HistoryEntry{
			{Kind: entity.EntryLine, SKU: "K", ProductName: "Kit", QtyChange: 2},
			{Kind: entity.EntryEffect, SKU: "A", ProductName: "Componente A", QtyChange: -4, SourceSKU: "K"},
		},
	}}

	out, err := NewHistoryReportGenerator().RenderHistory(context.Background(), "A", rows, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	empty, err := NewHistoryReportGenerator().RenderHistory(context.Background(), "", nil, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, empty)
}
