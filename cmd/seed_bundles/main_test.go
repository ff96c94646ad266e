package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
)

func TestParseCSV_CabeceraDuplicadosYOrden(t *testing.T) {
	in := "bundle_sku,component_sku,qty_per_bundle\n" +
		"SET-B,CUP-001,2\n" +
		"SET-A,LID-001,1\n" +
		"SET-B,CUP-001,3\n"
	rows, err := parseCSV(strings.NewReader(in), "utf-8")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SET-A", rows[0].BundleSKU)
	assert.Equal(t, int64(3), rows[1].QtyPerBundle, "gana la última fila repetida")
}

func TestParseCSV_EUCKR(t *testing.T) {
	utf8 := "세트-01,컵-001,2\n"
	encoded, err := korean.EUCKR.NewEncoder().String(utf8)
	require.NoError(t, err)

	rows, err := parseCSV(strings.NewReader(encoded), "euc-kr")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "세트-01", rows[0].BundleSKU)
	assert.Equal(t, "컵-001", rows[0].ComponentSKU)
}

func TestParseCSV_Rechazos(t *testing.T) {
	cases := map[string]string{
		"auto-referencia": "K,K,1\n",
		"cantidad cero":   "K,A,0\n",
		"cantidad texto":  "K,A,1\nK,B,x\n",
		"pocas columnas":  "K,A\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCSV(strings.NewReader(in), "utf-8")
			assert.Error(t, err)
		})
	}
	_, err := parseCSV(strings.NewReader("K,A,1\n"), "utf-16")
	assert.Error(t, err)
}

func TestWriteSQL_Idempotente(t *testing.T) {
	rows, err := parseCSV(strings.NewReader("K,A,2\nK,O'B,1\n"), "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, rows))
	sql := buf.String()
	assert.Contains(t, sql, "('K', 'A', 2),")
	assert.Contains(t, sql, "('K', 'O''B', 1)\n")
	assert.Contains(t, sql, "ON CONFLICT (bundle_sku, component_sku) DO UPDATE")
}
