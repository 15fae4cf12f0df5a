package syncing

import (
	"errors"
	"fmt"

	"github.com/vfg2006/inventory-sync-api/internal/domain"
)

var (
	ErrUnsupportedEntity = errors.New("tipo de entidade sem procedimento de sincronização")
	ErrInvalidRow        = errors.New("linha inválida")
	ErrWatermark         = errors.New("erro ao acessar marca d'água")
	ErrErrorRateExceeded = errors.New("taxa de erros acima do limite configurado")
	ErrStaleReset        = errors.New("erro ao zerar estoque não atualizado")
)

// SyncError é um erro com o tipo de entidade envolvido
type SyncError struct {
	Err        error             // Erro base
	EntityType domain.EntityType // Tipo sincronizado
	Details    string            // Detalhes adicionais
}

func (e *SyncError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Err.Error(), e.EntityType, e.Details)
	}
	return fmt.Sprintf("%s [%s]", e.Err.Error(), e.EntityType)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func NewSyncError(err error, entityType domain.EntityType, details string) *SyncError {
	return &SyncError{
		Err:        err,
		EntityType: entityType,
		Details:    details,
	}
}

func invalidRow(kind, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidRow, kind, reason)
}
