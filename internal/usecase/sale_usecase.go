package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"winehouse/internal/domain/model"
	repo "winehouse/internal/repository"
)

// インボイス番号の採番。テストで差し替えられるようにinterfaceにする。
type IDGenerator interface {
	NewID() string
}

type SaleUsecase struct {
	tx       repo.TransactionManager
	saleRepo repo.SaleRepository
	wineRepo repo.WineRepository
	stock    *StockUsecase
	idGen    IDGenerator
}

// DI
func NewSaleUsecase(
	tx repo.TransactionManager,
	saleRepo repo.SaleRepository,
	wineRepo repo.WineRepository,
	stock *StockUsecase,
	idGen IDGenerator,
) *SaleUsecase {
	return &SaleUsecase{
		tx:       tx,
		saleRepo: saleRepo,
		wineRepo: wineRepo,
		stock:    stock,
		idGen:    idGen,
	}
}

type CheckoutItemInput struct {
	WineID   int64 `json:"wine_id"`
	Quantity int64 `json:"quantity"`
}

type CheckoutInput struct {
	Items      []CheckoutItemInput
	Address    string
	City       string
	Province   string
	PostalCode string
}

// 在庫が足りず売れなかった明細
type RefusedItem struct {
	WineID    int64 `json:"wine_id"`
	Requested int64 `json:"requested"`
	Available int64 `json:"available"`
}

type FulfilledItem struct {
	WineID    int64                 `json:"wine_id"`
	Name      string                `json:"name"`
	UnitPrice decimal.Decimal       `json:"unit_price"`
	Quantity  int64                 `json:"quantity"`
	ItemTotal decimal.Decimal       `json:"item_total"`
	Locations []repo.StockDeduction `json:"locations"`
}

type CheckoutOutput struct {
	SaleID     int64           `json:"sale_id,omitempty"`
	InvoiceRef string          `json:"invoice_ref,omitempty"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      []FulfilledItem `json:"items"`
	Refused    []RefusedItem   `json:"refused,omitempty"`
}

// Checkout は明細ごとに在庫を引き当てて販売を確定する。
//
// 明細単位の全量引当：足りない明細は一切減らさずRefusedに載せ、
// 引けた明細だけで販売を作る。全明細が不足なら販売レコードは作らない。
// 明細には販売時点の名前・価格・割引を写す。
func (u *SaleUsecase) Checkout(ctx context.Context, accountID int64, in CheckoutInput) (CheckoutOutput, error) {
	if accountID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.Items) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "no items")
	}
	seen := make(map[int64]bool, len(in.Items))
	for _, it := range in.Items {
		if it.WineID <= 0 {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid wine id")
		}
		if it.Quantity <= 0 {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		if seen[it.WineID] {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "duplicate wine in items")
		}
		seen[it.WineID] = true
	}

	var (
		fulfilled []FulfilledItem
		refused   []RefusedItem
		items     []model.SaleItem
		total     = decimal.Zero
	)

	for _, it := range in.Items {
		w, err := u.wineRepo.FindByID(ctx, it.WineID)
		if errors.Is(err, repo.ErrNotFound) {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "unknown wine")
		}
		if err != nil {
			return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		res, err := u.stock.Allocate(ctx, it.WineID, it.Quantity)
		if err != nil {
			return CheckoutOutput{}, err
		}
		if !res.Fulfilled {
			refused = append(refused, RefusedItem{
				WineID:    it.WineID,
				Requested: it.Quantity,
				Available: res.Available,
			})
			continue
		}

		// 単価 = 定価 * (1 - 割引率)、2桁に丸め
		final := w.SalePrice.Mul(decimal.NewFromInt(1).Sub(w.Discount)).Round(2)
		itemTotal := final.Mul(decimal.NewFromInt(it.Quantity))
		total = total.Add(itemTotal)

		fulfilled = append(fulfilled, FulfilledItem{
			WineID:    it.WineID,
			Name:      w.Name,
			UnitPrice: final,
			Quantity:  it.Quantity,
			ItemTotal: itemTotal,
			Locations: res.Deductions,
		})
		items = append(items, model.SaleItem{
			WineID:           it.WineID,
			NameSnapshot:     w.Name,
			PriceSnapshot:    w.SalePrice,
			DiscountSnapshot: w.Discount,
			FinalUnitPrice:   final,
			Quantity:         it.Quantity,
			ItemTotal:        itemTotal,
		})
	}

	out := CheckoutOutput{
		TotalPrice: total,
		Items:      fulfilled,
		Refused:    refused,
	}

	// 1本も引けなければ販売レコードは残さない
	if len(items) == 0 {
		return out, nil
	}

	invoiceRef := u.idGen.NewID()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		saleID, err := r.Sales().Create(ctx, model.Sale{
			AccountID:  accountID,
			InvoiceRef: invoiceRef,
			TotalPrice: total,
			Address:    in.Address,
			City:       in.City,
			Province:   in.Province,
			PostalCode: in.PostalCode,
		})
		if err != nil {
			return err
		}
		if err := r.Sales().CreateItems(ctx, saleID, items); err != nil {
			return err
		}
		out.SaleID = saleID
		return nil
	})
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out.InvoiceRef = invoiceRef
	return out, nil
}

type SaleListOutput struct {
	Items []model.Sale `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *SaleUsecase) ListMySales(ctx context.Context, accountID int64, page int, limit int) (SaleListOutput, error) {
	if accountID <= 0 {
		return SaleListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return SaleListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return SaleListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	sales, total, err := u.saleRepo.ListByAccountID(ctx, accountID, page, limit)
	if err != nil {
		return SaleListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return SaleListOutput{Items: sales, Total: total, Page: page, Limit: limit}, nil
}

type SaleDetailOutput struct {
	Sale  model.Sale       `json:"sale"`
	Items []model.SaleItem `json:"items"`
}

// 他人の販売は存在しないのと同じ扱いにする
func (u *SaleUsecase) GetMySaleDetail(ctx context.Context, accountID int64, saleID int64) (SaleDetailOutput, error) {
	if accountID <= 0 {
		return SaleDetailOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if saleID <= 0 {
		return SaleDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sale id")
	}

	s, err := u.saleRepo.FindByID(ctx, saleID)
	if errors.Is(err, repo.ErrNotFound) {
		return SaleDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return SaleDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.AccountID != accountID {
		return SaleDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.saleRepo.ListItemsBySaleID(ctx, saleID)
	if err != nil {
		return SaleDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return SaleDetailOutput{Sale: s, Items: items}, nil
}
