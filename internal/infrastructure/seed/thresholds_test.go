package seed_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/seed"
)

func TestReadThresholds_ConEncabezadoYComentarios(t *testing.T) {
	in := "operation_type,product_id,max_co2\n# cereales\nproduction,trigo,60.5\nTransport, trigo ,5\n"
	rows, err := seed.ReadThresholds(strings.NewReader(in), "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, entity.OperationProduction, rows[0].OperationType)
	assert.True(t, rows[0].MaxCO2.Equal(decimal.RequireFromString("60.5")))
	assert.Equal(t, entity.OperationTransport, rows[1].OperationType)
	assert.Equal(t, "trigo", rows[1].ProductID)
}

func TestReadThresholds_SeisDecimalesConCerosFinales(t *testing.T) {
	rows, err := seed.ReadThresholds(strings.NewReader("production,trigo,1.234567\nsale,pan,2.500000000\n"), "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1.234567", rows[0].MaxCO2.String())
	assert.True(t, rows[1].MaxCO2.Equal(decimal.RequireFromString("2.5")))
}

func TestReadThresholds_Latin1(t *testing.T) {
	utf := "production,café orgánico,12\n"
	latin, err := charmap.ISO8859_1.NewEncoder().String(utf)
	require.NoError(t, err)

	rows, err := seed.ReadThresholds(bytes.NewReader([]byte(latin)), "latin1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "café orgánico", rows[0].ProductID)
}

func TestReadThresholds_Errores(t *testing.T) {
	cases := []struct {
		name, in, charset string
	}{
		{"tipo desconocido", "flete,trigo,1\n", ""},
		{"co2 negativo", "production,trigo,-1\n", ""},
		{"co2 no numérico", "production,trigo,mucho\n", ""},
		{"producto vacío", "production,,1\n", ""},
		{"más de seis decimales", "production,trigo,1.2345678\n", ""},
		{"columnas faltantes", "production,trigo\n", ""},
		{"charset desconocido", "production,trigo,1\n", "ebcdic"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := seed.ReadThresholds(strings.NewReader(tc.in), tc.charset)
			assert.Error(t, err)
		})
	}
}
