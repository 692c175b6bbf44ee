// Package memory is an in-process implementation of the repository
// interfaces. The *ForUpdate finders take a per-row lock held until the
// transaction ends, so reservations for different dates run side by
// side the way they do on postgres. Rollback replays an undo log.
// Nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"museum-booking/internal/data/entity"
	"museum-booking/internal/data/repository"
	"museum-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type db struct {
	// gate is shared by running transactions and held exclusively by
	// autocommit writes, which take no row locks.
	gate sync.RWMutex
	mu   sync.RWMutex
	rows rowLocks

	users    map[uuid.UUID]*entity.User
	sessions map[string]*entity.Session
	bookings map[uuid.UUID]*entity.Booking
	quotas   map[string]*entity.DailyQuota
	notices  []*entity.Notice
}

type txState struct {
	undo []func()
	held []string
}

// rowLocks hands out one exclusive lock per key.
type rowLocks struct {
	mu   sync.Mutex
	busy map[string]chan struct{}
}

func (l *rowLocks) acquire(ctx context.Context, key string) error {
	for {
		l.mu.Lock()
		wait, taken := l.busy[key]
		if !taken {
			l.busy[key] = make(chan struct{})
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *rowLocks) release(key string) {
	l.mu.Lock()
	wait := l.busy[key]
	delete(l.busy, key)
	l.mu.Unlock()
	close(wait)
}

// scope is what every repository holds: the shared state plus the
// transaction it runs in, nil when autocommit.
type scope struct {
	db *db
	tx *txState
}

// lockRow takes key for the rest of the transaction. Outside one it is a
// no-op, like SELECT ... FOR UPDATE under autocommit.
func (s *scope) lockRow(ctx context.Context, key string) error {
	if s.tx == nil {
		return nil
	}
	for _, k := range s.tx.held {
		if k == key {
			return nil
		}
	}
	if err := s.db.rows.acquire(ctx, key); err != nil {
		return err
	}
	s.tx.held = append(s.tx.held, key)
	return nil
}

func (s *scope) read(fn func()) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	fn()
}

func (s *scope) write(fn func() (undo func(), err error)) error {
	if s.tx == nil {
		s.db.gate.Lock()
		defer s.db.gate.Unlock()
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	undo, err := fn()
	if err != nil {
		return err
	}
	if s.tx != nil && undo != nil {
		s.tx.undo = append(s.tx.undo, undo)
	}
	return nil
}

func newRepository(s *scope) *repository.Repository {
	return &repository.Repository{
		User:    &userRepository{scope: s},
		Session: &sessionRepository{scope: s},
		Booking: &bookingRepository{scope: s},
		Quota:   &quotaRepository{scope: s},
		Notice:  &noticeRepository{scope: s},
	}
}

// NewStore returns an empty store.
func NewStore(log *zap.Logger) *repository.Store {
	d := &db{
		users:    make(map[uuid.UUID]*entity.User),
		sessions: make(map[string]*entity.Session),
		bookings: make(map[uuid.UUID]*entity.Booking),
		quotas:   make(map[string]*entity.DailyQuota),
		rows:     rowLocks{busy: make(map[string]chan struct{})},
	}
	log = log.With(zap.String("repository", "memory"))

	return &repository.Store{
		Repository: newRepository(&scope{db: d}),
		Tx:         &transactor{db: d, log: log},
	}
}

type transactor struct {
	db  *db
	log *zap.Logger
}

func (t *transactor) WithinTx(ctx context.Context, fn func(repo *repository.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.db.gate.RLock()
	defer t.db.gate.RUnlock()

	tx := &txState{}
	committed := false
	defer func() {
		if !committed {
			t.rollback(tx)
		}
		for _, key := range tx.held {
			t.db.rows.release(key)
		}
	}()

	if err := fn(newRepository(&scope{db: t.db, tx: tx})); err != nil {
		return err
	}

	committed = true
	return nil
}

func (t *transactor) rollback(tx *txState) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	t.log.Debug("Transaction rolled back", zap.Int("undone", len(tx.undo)))
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func dateKey(t time.Time) string {
	return utils.FormatDate(t)
}
