package repository

import (
	"context"

	"gorm.io/gorm"

	repo "winehouse/internal/repository"
)

type txReposGorm struct {
	stock     repo.StockRepository
	sales     repo.SaleRepository
	purchases repo.PurchaseRepository
	wines     repo.WineRepository
}

func (r *txReposGorm) Stock() repo.StockRepository         { return r.stock }
func (r *txReposGorm) Sales() repo.SaleRepository          { return r.sales }
func (r *txReposGorm) Purchases() repo.PurchaseRepository  { return r.purchases }
func (r *txReposGorm) Wines() repo.WineRepository          { return r.wines }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			stock:     NewStockGormRepository(tx),
			sales:     NewSaleGormRepository(tx),
			purchases: NewPurchaseGormRepository(tx),
			wines:     NewWineGormRepository(tx),
		}
		return fn(r)
	})
}
