package scheduler

import "errors"

var (
	ErrUnknownEntityType  = errors.New("tipo de entidade desconhecido")
	ErrSyncAlreadyRunning = errors.New("já existe uma sincronização em andamento")
	ErrJobNotFound        = errors.New("job de sincronização não encontrado")
	ErrBasePhaseFailed    = errors.New("fase base falhou")
)
