package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"winehouse/internal/domain/model"
	repo "winehouse/internal/repository"
)

type PurchaseUsecase struct {
	purchaseRepo repo.PurchaseRepository
	wineRepo     repo.WineRepository
}

// DI
func NewPurchaseUsecase(purchaseRepo repo.PurchaseRepository, wineRepo repo.WineRepository) *PurchaseUsecase {
	return &PurchaseUsecase{purchaseRepo: purchaseRepo, wineRepo: wineRepo}
}

type PurchaseInput struct {
	WineID    int64
	CostPrice decimal.Decimal
	Amount    int64
}

// 仕入れ記録の作成。在庫の積み増しは倉庫受け入れ側で別途行う。
func (u *PurchaseUsecase) Create(ctx context.Context, adminID int64, in PurchaseInput) (int64, error) {
	if adminID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validate(ctx, in); err != nil {
		return 0, err
	}

	id, err := u.purchaseRepo.Create(ctx, model.Purchase{
		WineID:    in.WineID,
		CostPrice: in.CostPrice,
		Amount:    in.Amount,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return id, nil
}

// まとめ登録。1件でも不正なら全体を弾く。
func (u *PurchaseUsecase) CreateBulk(ctx context.Context, adminID int64, ins []PurchaseInput) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(ins) == 0 {
		return NewHTTPError(http.StatusBadRequest, "no purchases")
	}
	for _, in := range ins {
		if err := u.validate(ctx, in); err != nil {
			return err
		}
	}

	ps := make([]model.Purchase, 0, len(ins))
	for _, in := range ins {
		ps = append(ps, model.Purchase{
			WineID:    in.WineID,
			CostPrice: in.CostPrice,
			Amount:    in.Amount,
		})
	}

	if err := u.purchaseRepo.CreateBulk(ctx, ps); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

type PurchaseListOutput struct {
	Items []model.Purchase `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *PurchaseUsecase) List(ctx context.Context, adminID int64, page int, limit int) (PurchaseListOutput, error) {
	if adminID <= 0 {
		return PurchaseListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return PurchaseListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return PurchaseListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.purchaseRepo.List(ctx, page, limit)
	if err != nil {
		return PurchaseListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return PurchaseListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (u *PurchaseUsecase) validate(ctx context.Context, in PurchaseInput) error {
	if in.WineID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid wine id")
	}
	if in.CostPrice.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "cost_price must be >= 0")
	}
	if in.Amount <= 0 {
		return NewHTTPError(http.StatusBadRequest, "amount must be > 0")
	}

	if _, err := u.wineRepo.FindByID(ctx, in.WineID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "unknown wine")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
