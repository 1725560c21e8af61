package repository

import (
	"context"
	"errors"

	"winehouse/internal/domain/model"
)

var ErrAccountNotFound = errors.New("account not found")

type AccountRepository interface {
	Create(ctx context.Context, a *model.Account) error

	// 見つからなければ (nil, nil)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByID(ctx context.Context, id int64) (*model.Account, error)

	Update(ctx context.Context, a *model.Account) error
}
