package usecase

import (
	"context"
	"net/http"

	repo "winehouse/internal/repository"
)

// 在庫僅少とみなす閾値
const lowStockThreshold = 10

type ReportUsecase struct {
	wineRepo  repo.WineRepository
	stockRepo repo.StockRepository
}

// DI
func NewReportUsecase(wineRepo repo.WineRepository, stockRepo repo.StockRepository) *ReportUsecase {
	return &ReportUsecase{wineRepo: wineRepo, stockRepo: stockRepo}
}

type WineStockReport struct {
	WineID    int64                `json:"wine_id"`
	Name      string               `json:"name"`
	Total     int64                `json:"total"`
	Locations []repo.StockLocation `json:"locations"`
}

type StockReportOutput struct {
	Wines      []WineStockReport `json:"wines"`
	TotalUnits int64             `json:"total_units"`
}

// 全ワインの在庫棚卸し。カタログにあって在庫ゼロのワインも載る。
func (u *ReportUsecase) StockReport(ctx context.Context, adminID int64) (StockReportOutput, error) {
	if adminID <= 0 {
		return StockReportOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	wines, err := u.wineRepo.ListAll(ctx)
	if err != nil {
		return StockReportOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := StockReportOutput{Wines: make([]WineStockReport, 0, len(wines))}
	for _, w := range wines {
		locs, err := u.stockRepo.Locate(ctx, w.ID)
		if err != nil {
			return StockReportOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		var total int64
		for _, loc := range locs {
			total += loc.Quantity
		}
		out.Wines = append(out.Wines, WineStockReport{
			WineID:    w.ID,
			Name:      w.Name,
			Total:     total,
			Locations: locs,
		})
		out.TotalUnits += total
	}
	return out, nil
}

type LowStockWine struct {
	WineID int64  `json:"wine_id"`
	Name   string `json:"name"`
	Total  int64  `json:"total"`
}

// 在庫が閾値未満のワイン。発注の目安に使う。
func (u *ReportUsecase) LowStock(ctx context.Context, adminID int64) ([]LowStockWine, error) {
	if adminID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	wines, err := u.wineRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	low := make([]LowStockWine, 0)
	for _, w := range wines {
		total, err := u.stockRepo.Total(ctx, w.ID)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if total < lowStockThreshold {
			low = append(low, LowStockWine{WineID: w.ID, Name: w.Name, Total: total})
		}
	}
	return low, nil
}
