package provenance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/co2-ledger/internal/domain/entity"
)

// ThresholdMessage cadena firmada: "{operation_type}|{product_id}|{max_co2}".
func ThresholdMessage(op entity.OperationType, productID string, maxCO2 decimal.Decimal) string {
	return fmt.Sprintf("%s|%s|%s", op, productID, maxCO2.String())
}

// SignThreshold devuelve el HMAC-SHA256 en hex de la terna del umbral.
func SignThreshold(secret []byte, op entity.OperationType, productID string, maxCO2 decimal.Decimal) string {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(ThresholdMessage(op, productID, maxCO2)))
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidThresholdSignature recalcula la firma y compara en tiempo constante.
// Una firma que no es hex válido se considera adulterada.
func ValidThresholdSignature(secret []byte, t *entity.Threshold) bool {
	provided, err := hex.DecodeString(t.Signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(ThresholdMessage(t.OperationType, t.ProductID, t.MaxCO2)))
	return hmac.Equal(mac.Sum(nil), provided)
}
