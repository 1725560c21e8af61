package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"winehouse/internal/domain/model"
	domainrepo "winehouse/internal/repository"
)

type accountGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewAccountGormRepository(db *gorm.DB) domainrepo.AccountRepository {
	return &accountGormRepository{db: db}
}

func (r *accountGormRepository) Create(ctx context.Context, a *model.Account) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return err
	}
	return nil
}

// emailでアカウントを1件取得。見つからなければ (nil, nil)
func (r *accountGormRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var a model.Account

	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&a).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &a, nil
}

func (r *accountGormRepository) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	var a model.Account

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&a).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &a, nil
}

func (r *accountGormRepository) Update(ctx context.Context, a *model.Account) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return err
	}
	return nil
}
