package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLocker serve uma única instância da API quando não há Redis configurado
type LocalLocker struct {
	mu     sync.Mutex
	held   map[string]localEntry
	nextID uint64
	now    func() time.Time
}

type localEntry struct {
	id        uint64
	expiresAt time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		held: make(map[string]localEntry),
		now:  time.Now,
	}
}

func (l *LocalLocker) Obtain(_ context.Context, key string, ttl time.Duration) (Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if entry, ok := l.held[key]; ok && now.Before(entry.expiresAt) {
		return nil, ErrNotObtained
	}

	l.nextID++
	l.held[key] = localEntry{id: l.nextID, expiresAt: now.Add(ttl)}

	return &localLease{locker: l, key: key, id: l.nextID}, nil
}

type localLease struct {
	locker *LocalLocker
	key    string
	id     uint64
}

func (l *localLease) Refresh(_ context.Context, ttl time.Duration) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()

	entry, ok := l.locker.held[l.key]
	if !ok || entry.id != l.id {
		return ErrNotObtained
	}

	entry.expiresAt = l.locker.now().Add(ttl)
	l.locker.held[l.key] = entry
	return nil
}

func (l *localLease) Release(_ context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()

	// só libera se a posse ainda for desta lease
	if entry, ok := l.locker.held[l.key]; ok && entry.id == l.id {
		delete(l.locker.held, l.key)
	}
	return nil
}
