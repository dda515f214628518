package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrPermissionDenied     = errors.New("rol no autorizado para el tipo de operación")
	ErrLotNotFound          = errors.New("lote no encontrado")
	ErrInsufficientQuantity = errors.New("cantidad insuficiente en bodega")
	ErrCycleDetected        = errors.New("ciclo detectado en el grafo de composición")
	ErrThresholdNotFound    = errors.New("umbral de CO2 no encontrado")
	ErrThresholdTampered    = errors.New("firma del umbral de CO2 inválida")
	ErrMissingSecretKey     = errors.New("clave secreta de umbrales no configurada")
	ErrAlreadyAccrued       = errors.New("tokens ya acreditados para el lote")
	ErrStorageTransaction   = errors.New("error transaccional de almacenamiento")
)

// StorageError envuelve fallos del almacén (lock, timeout, integridad).
// Retryable indica que el caller puede reintentar la operación completa.
type StorageError struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *StorageError) Error() string {
	if e.Retryable {
		return fmt.Sprintf("%s (reintentable): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrStorageTransaction).
func (e *StorageError) Is(target error) bool { return target == ErrStorageTransaction }

// IsRetryable indica si err es un StorageError reintentable.
func IsRetryable(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Retryable
}
