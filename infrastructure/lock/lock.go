package lock

//go:generate mockgen -source=lock.go -destination=mocks/lock.go -package=mocks

import (
	"context"
	"errors"
	"time"
)

// ErrNotObtained indica que outra execução já detém a chave
var ErrNotObtained = errors.New("lock já está em uso")

// Lease é a posse de uma chave até Release ou até o TTL expirar
type Lease interface {
	Refresh(ctx context.Context, ttl time.Duration) error
	Release(ctx context.Context) error
}

type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}
