package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"winehouse/internal/domain/model"
	repo "winehouse/internal/repository"
)

// ガード失敗（他の販売と競合して在庫が先に減った）。
// リトライ用の内部シグナルで、Txをロールバックさせる。
var errStockRace = errors.New("stock entry changed underneath")

// 引当のリトライ上限
const allocateRetries = 3

// 引当の結果。在庫不足は正常な業務結果であってエラーではない。
type AllocationResult struct {
	Fulfilled  bool                  `json:"fulfilled"`
	Available  int64                 `json:"available"`
	Deductions []repo.StockDeduction `json:"deductions,omitempty"`
}

type StockUsecase struct {
	tx        repo.TransactionManager
	stockRepo repo.StockRepository
}

// DI
func NewStockUsecase(tx repo.TransactionManager, stockRepo repo.StockRepository) *StockUsecase {
	return &StockUsecase{tx: tx, stockRepo: stockRepo}
}

// ワインの全保管場所（数量昇順）。読み取りのみ。
func (u *StockUsecase) Locate(ctx context.Context, wineID int64) ([]repo.StockLocation, error) {
	if wineID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid wine id")
	}
	locs, err := u.stockRepo.Locate(ctx, wineID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return locs, nil
}

// 全場所の合計在庫。在庫ゼロと未知のワインは区別しない（どちらも0）。
func (u *StockUsecase) Total(ctx context.Context, wineID int64) (int64, error) {
	if wineID <= 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid wine id")
	}
	total, err := u.stockRepo.Total(ctx, wineID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return total, nil
}

// Allocate は requested 分の在庫を探して引き落とす。
//
// 在庫の少ない場所から順に減らす（半端な在庫を先に片付ける）。
// 合計が足りなければ何も減らさずに Refused を返す。
// 引き落としはTx内のガード付き減算で行い、ガードに失敗したら
// Txごとロールバックして locate からやり直す。
func (u *StockUsecase) Allocate(ctx context.Context, wineID int64, requested int64) (AllocationResult, error) {
	if wineID <= 0 {
		return AllocationResult{}, NewHTTPError(http.StatusBadRequest, "invalid wine id")
	}
	if requested <= 0 {
		return AllocationResult{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var result AllocationResult

	for attempt := 0; attempt < allocateRetries; attempt++ {
		err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			locs, err := r.Stock().Locate(ctx, wineID)
			if err != nil {
				return err
			}

			var total int64
			for _, loc := range locs {
				total += loc.Quantity
			}

			// 全体で足りなければ部分引当もしない
			if total < requested {
				result = AllocationResult{Fulfilled: false, Available: total}
				return nil
			}

			remaining := requested
			deductions := make([]repo.StockDeduction, 0, len(locs))

			for _, loc := range locs {
				if remaining == 0 {
					break
				}
				take := loc.Quantity
				if take > remaining {
					take = remaining
				}
				if take == 0 {
					continue
				}

				ok, err := r.Stock().DeductEntry(ctx, loc.EntryID, take)
				if err != nil {
					return err
				}
				if !ok {
					// 読んだ後に他の販売が先に引いた
					return errStockRace
				}

				if err := r.Stock().CreateMovement(ctx, model.StockMovement{
					WarehouseID: loc.WarehouseID,
					Aisle:       loc.Aisle,
					Shelf:       loc.Shelf,
					WineID:      wineID,
					Delta:       -take,
					Kind:        model.MovementSale,
				}); err != nil {
					return err
				}

				deductions = append(deductions, repo.StockDeduction{
					WarehouseID: loc.WarehouseID,
					Aisle:       loc.Aisle,
					Shelf:       loc.Shelf,
					Quantity:    take,
				})
				remaining -= take
			}

			result = AllocationResult{Fulfilled: true, Available: total, Deductions: deductions}
			return nil
		})

		if err == nil {
			return result, nil
		}
		if errors.Is(err, errStockRace) {
			continue
		}
		return AllocationResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return AllocationResult{}, NewHTTPError(http.StatusConflict, "stock conflict")
}

type AddStockInput struct {
	WarehouseID int64
	Aisle       string
	Shelf       string
	WineID      int64
	Quantity    int64
}

// AddStock は指定の場所に在庫を積む。
//
// 下から順のget-or-create：
// エントリがあれば加算 → 棚があればエントリ追加 → 通路があれば棚ごと追加
// → 倉庫があれば通路ごと追加 → 倉庫が無ければエラー。
func (u *StockUsecase) AddStock(ctx context.Context, in AddStockInput) error {
	if in.WarehouseID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid warehouse id")
	}
	if strings.TrimSpace(in.Aisle) == "" || strings.TrimSpace(in.Shelf) == "" {
		return NewHTTPError(http.StatusBadRequest, "aisle and shelf required")
	}
	if in.WineID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid wine id")
	}
	if in.Quantity <= 0 {
		return NewHTTPError(http.StatusBadRequest, "quantity must be > 0")
	}

	aisleLabel := strings.TrimSpace(in.Aisle)
	shelfLabel := strings.TrimSpace(in.Shelf)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		st := r.Stock()

		exists, err := st.WarehouseExists(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if !exists {
			return NewHTTPError(http.StatusNotFound, "warehouse not found")
		}

		aisle, err := st.FindAisle(ctx, in.WarehouseID, aisleLabel)
		if errors.Is(err, repo.ErrNotFound) {
			id, cerr := st.CreateAisle(ctx, model.Aisle{WarehouseID: in.WarehouseID, Label: aisleLabel})
			if cerr != nil {
				return cerr
			}
			aisle = model.Aisle{ID: id, WarehouseID: in.WarehouseID, Label: aisleLabel}
		} else if err != nil {
			return err
		}

		shelf, err := st.FindShelf(ctx, aisle.ID, shelfLabel)
		if errors.Is(err, repo.ErrNotFound) {
			id, cerr := st.CreateShelf(ctx, model.Shelf{AisleID: aisle.ID, Label: shelfLabel})
			if cerr != nil {
				return cerr
			}
			shelf = model.Shelf{ID: id, AisleID: aisle.ID, Label: shelfLabel}
		} else if err != nil {
			return err
		}

		// 1棚1ワイン1行。あれば加算、無ければ作成。
		entry, err := st.FindEntry(ctx, shelf.ID, in.WineID)
		if errors.Is(err, repo.ErrNotFound) {
			if cerr := st.CreateEntry(ctx, model.StockEntry{ShelfID: shelf.ID, WineID: in.WineID, Quantity: in.Quantity}); cerr != nil {
				return cerr
			}
		} else if err != nil {
			return err
		} else {
			if ierr := st.IncrementEntry(ctx, entry.ID, in.Quantity); ierr != nil {
				return ierr
			}
		}

		return st.CreateMovement(ctx, model.StockMovement{
			WarehouseID: in.WarehouseID,
			Aisle:       aisleLabel,
			Shelf:       shelfLabel,
			WineID:      in.WineID,
			Delta:       in.Quantity,
			Kind:        model.MovementRestock,
		})
	})

	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return err
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ResolveWarehouse は場所名から倉庫IDを引く。無ければ作る。
// 一意制約はこの層では張らない（同名同時作成は重複し得る）。
func (u *StockUsecase) ResolveWarehouse(ctx context.Context, location string) (int64, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "location required")
	}

	w, err := u.stockRepo.FindWarehouseByLocation(ctx, location)
	if err == nil {
		return w.ID, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	id, err := u.stockRepo.CreateWarehouse(ctx, model.Warehouse{Location: location})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return id, nil
}
