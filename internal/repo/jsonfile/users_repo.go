package jsonfile

import (
	"context"

	"github.com/fasttrackbd/courier/internal/domain/user"
	"github.com/fasttrackbd/courier/internal/observability"
	"github.com/fasttrackbd/courier/internal/security"
	storefile "github.com/fasttrackbd/courier/internal/store/jsonfile"
)

type UsersRepo struct {
	col  *storefile.Collection[user.User]
	prom *observability.Prom
}

func NewUsersRepo(col *storefile.Collection[user.User], prom *observability.Prom) *UsersRepo {
	return &UsersRepo{col: col, prom: prom}
}

// Create enforces the uniqueness invariant over username, phone and email.
func (r *UsersRepo) Create(ctx context.Context, username, passwordHash, phone, email, role string) (user.User, error) {
	u := user.User{
		ID:           user.NewID(),
		Username:     username,
		PasswordHash: passwordHash,
		Phone:        phone,
		Email:        email,
		Role:         role,
		CreatedAt:    now(),
	}

	err := r.prom.ObserveStore("users.create", func() error {
		return r.col.Update(func(items []user.User) ([]user.User, error) {
			for _, existing := range items {
				switch {
				case existing.Username == username:
					return nil, user.ErrUsernameTaken
				case existing.Phone == phone:
					return nil, user.ErrPhoneTaken
				case existing.Email == email:
					return nil, user.ErrEmailTaken
				}
			}

			return append(items, u), nil
		})
	})

	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var items []user.User

	err := r.prom.ObserveStore("users.get_by_username", func() error {
		var err error
		items, err = r.col.Load()
		return err
	})

	if err != nil {
		return user.User{}, err
	}

	for _, u := range items {
		if u.Username == username {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

// EnsureAdmin seeds the admin identity into the user store at startup so
// login goes through the same credential path as everyone else. A no-op when
// the username already exists or credentials are not configured.
func (r *UsersRepo) EnsureAdmin(ctx context.Context, username, password, email, phone string) error {
	if username == "" || password == "" {
		return nil
	}

	_, err := r.GetByUsername(ctx, username)

	if err == nil {
		return nil
	}

	if err != user.ErrNotFound {
		return err
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		return err
	}

	_, err = r.Create(ctx, username, hash, phone, email, user.RoleAdmin)

	return err
}
