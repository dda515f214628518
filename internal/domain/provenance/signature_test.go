package provenance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/provenance"
)

var testSecret = []byte("clave-de-prueba-umbrales")

func signedThreshold(maxCO2 decimal.Decimal) *entity.Threshold {
	return &entity.Threshold{
		OperationType: entity.OperationProduction,
		ProductID:     "tomate",
		MaxCO2:        maxCO2,
		Signature:     provenance.SignThreshold(testSecret, entity.OperationProduction, "tomate", maxCO2),
	}
}

func TestThresholdMessage_Formato(t *testing.T) {
	msg := provenance.ThresholdMessage(entity.OperationTransport, "trigo", decimal.RequireFromString("12.5000"))
	assert.Equal(t, "transport|trigo|12.5", msg)
}

func TestSignThreshold_Determinista(t *testing.T) {
	a := provenance.SignThreshold(testSecret, entity.OperationSale, "p1", decimal.NewFromInt(7))
	b := provenance.SignThreshold(testSecret, entity.OperationSale, "p1", decimal.NewFromInt(7))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64, "HMAC-SHA256 en hex tiene 64 caracteres")
}

func TestValidThresholdSignature_Valida(t *testing.T) {
	assert.True(t, provenance.ValidThresholdSignature(testSecret, signedThreshold(decimal.NewFromInt(50))))
}

// Cambiar cualquier bit de max_co2 sin recalcular la firma debe invalidarla.
func TestValidThresholdSignature_BitAlterado(t *testing.T) {
	for bit := 0; bit < 16; bit++ {
		th := signedThreshold(decimal.NewFromInt(50))
		th.MaxCO2 = decimal.NewFromInt(50 ^ (1 << bit))
		assert.False(t, provenance.ValidThresholdSignature(testSecret, th), "bit %d alterado debe detectarse", bit)
	}
}

func TestValidThresholdSignature_OtraClave(t *testing.T) {
	th := signedThreshold(decimal.NewFromInt(50))
	assert.False(t, provenance.ValidThresholdSignature([]byte("otra-clave"), th))
}

func TestValidThresholdSignature_HexInvalido(t *testing.T) {
	th := signedThreshold(decimal.NewFromInt(50))
	th.Signature = "zz-no-es-hex"
	assert.False(t, provenance.ValidThresholdSignature(testSecret, th))
}

func TestTokensDelta(t *testing.T) {
	assert.True(t, provenance.TokensDelta(decimal.NewFromInt(50), decimal.NewFromInt(30)).Equal(decimal.NewFromInt(20)))
	assert.True(t, provenance.TokensDelta(decimal.NewFromInt(50), decimal.NewFromInt(80)).Equal(decimal.NewFromInt(-30)),
		"un exceso de CO2 produce delta negativo")
}
