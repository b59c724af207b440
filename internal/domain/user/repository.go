package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	// UpsertAdmin creates an admin login or resets the password of an existing one.
	UpsertAdmin(ctx context.Context, email, passwordHash string) (User, error)
	Delete(ctx context.Context, id string) error
}
