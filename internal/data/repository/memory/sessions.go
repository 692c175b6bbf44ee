package memory

import (
	"context"
	"fmt"
	"time"

	"museum-booking/internal/data/entity"
)

type sessionRepository struct {
	*scope
}

func (r *sessionRepository) Create(_ context.Context, session *entity.Session) error {
	return r.write(func() (func(), error) {
		token := session.Token.String()
		r.db.sessions[token] = clone(session)
		return func() { delete(r.db.sessions, token) }, nil
	})
}

func (r *sessionRepository) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	var out *entity.Session
	r.read(func() {
		s, ok := r.db.sessions[token]
		if ok && s.RevokedAt == nil && s.ExpiresAt.After(time.Now()) {
			out = clone(s)
		}
	})
	return out, nil
}

func (r *sessionRepository) Revoke(_ context.Context, token string) error {
	return r.write(func() (func(), error) {
		prev, ok := r.db.sessions[token]
		if !ok || prev.RevokedAt != nil {
			return nil, fmt.Errorf("session not found or already revoked")
		}
		s := clone(prev)
		now := time.Now()
		s.RevokedAt = &now
		r.db.sessions[token] = s
		return func() { r.db.sessions[token] = prev }, nil
	})
}
