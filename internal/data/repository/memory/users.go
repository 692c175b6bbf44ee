package memory

import (
	"context"
	"fmt"

	"museum-booking/internal/data/entity"
	"museum-booking/internal/data/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	*scope
}

func (r *userRepository) Create(_ context.Context, user *entity.User) error {
	return r.write(func() (func(), error) {
		for _, u := range r.db.users {
			if u.Username == user.Username || u.Email == user.Email {
				return nil, repository.ErrDuplicateUser
			}
		}
		r.db.users[user.ID] = clone(user)
		id := user.ID
		return func() { delete(r.db.users, id) }, nil
	})
}

func (r *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	var out *entity.User
	r.read(func() {
		if u, ok := r.db.users[id]; ok && u.DeletedAt == nil {
			out = clone(u)
		}
	})
	return out, nil
}

func (r *userRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := r.lockRow(ctx, "user:"+id.String()); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r *userRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool { return u.Username == username }), nil
}

func (r *userRepository) findBy(match func(*entity.User) bool) *entity.User {
	var out *entity.User
	r.read(func() {
		for _, u := range r.db.users {
			if u.DeletedAt == nil && match(u) {
				out = clone(u)
				return
			}
		}
	})
	return out
}

func (r *userRepository) Update(_ context.Context, user *entity.User) error {
	return r.write(func() (func(), error) {
		prev, ok := r.db.users[user.ID]
		if !ok || prev.DeletedAt != nil {
			return nil, fmt.Errorf("user %s not found or already deleted", user.ID)
		}
		for id, u := range r.db.users {
			if id != user.ID && (u.Username == user.Username || u.Email == user.Email) {
				return nil, repository.ErrDuplicateUser
			}
		}
		r.db.users[user.ID] = clone(user)
		return func() { r.db.users[prev.ID] = prev }, nil
	})
}
