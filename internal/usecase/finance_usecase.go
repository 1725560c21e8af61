package usecase

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	repo "winehouse/internal/repository"
)

// 現在時刻の取得。テストで固定できるようにinterfaceにする。
type Clock interface {
	Now() time.Time
}

type FinanceUsecase struct {
	saleRepo     repo.SaleRepository
	purchaseRepo repo.PurchaseRepository
	clock        Clock
}

// DI
func NewFinanceUsecase(saleRepo repo.SaleRepository, purchaseRepo repo.PurchaseRepository, clock Clock) *FinanceUsecase {
	return &FinanceUsecase{saleRepo: saleRepo, purchaseRepo: purchaseRepo, clock: clock}
}

type FinanceRangeInput struct {
	From *time.Time
	To   *time.Time
}

type FinanceRangeOutput struct {
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
	Profit    decimal.Decimal `json:"profit"`
}

// 期間の売上・仕入れ・粗利。期間未指定なら今月（月初から現在まで）。
func (u *FinanceUsecase) RangeReport(ctx context.Context, adminID int64, in FinanceRangeInput) (FinanceRangeOutput, error) {
	if adminID <= 0 {
		return FinanceRangeOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	from, to, err := u.resolveRange(in)
	if err != nil {
		return FinanceRangeOutput{}, err
	}

	sales, err := u.saleRepo.SumTotalBetween(ctx, from, to)
	if err != nil {
		return FinanceRangeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	purchases, err := u.purchaseRepo.SumCostBetween(ctx, from, to)
	if err != nil {
		return FinanceRangeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return FinanceRangeOutput{
		From:      from,
		To:        to,
		Sales:     sales,
		Purchases: purchases,
		Profit:    sales.Sub(purchases),
	}, nil
}

type DailyRow struct {
	Date      string          `json:"date"`
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
}

type FinanceDailyOutput struct {
	From time.Time  `json:"from"`
	To   time.Time  `json:"to"`
	Days []DailyRow `json:"days"`
}

// 日別の売上と仕入れ。動きのあった日だけ返す（ゼロ埋めしない）。
func (u *FinanceUsecase) DailyReport(ctx context.Context, adminID int64, in FinanceRangeInput) (FinanceDailyOutput, error) {
	if adminID <= 0 {
		return FinanceDailyOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	from, to, err := u.resolveRange(in)
	if err != nil {
		return FinanceDailyOutput{}, err
	}

	saleDays, err := u.saleRepo.SumDailyBetween(ctx, from, to)
	if err != nil {
		return FinanceDailyOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	purchaseDays, err := u.purchaseRepo.SumDailyCostBetween(ctx, from, to)
	if err != nil {
		return FinanceDailyOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	byDate := make(map[string]*DailyRow)
	for _, d := range saleDays {
		byDate[d.Date] = &DailyRow{Date: d.Date, Sales: d.Total, Purchases: decimal.Zero}
	}
	for _, d := range purchaseDays {
		if row, ok := byDate[d.Date]; ok {
			row.Purchases = d.Total
			continue
		}
		byDate[d.Date] = &DailyRow{Date: d.Date, Sales: decimal.Zero, Purchases: d.Total}
	}

	days := make([]DailyRow, 0, len(byDate))
	for _, row := range byDate {
		days = append(days, *row)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	return FinanceDailyOutput{From: from, To: to, Days: days}, nil
}

// from/toは両方指定か両方省略。省略時は月初から現在まで。
func (u *FinanceUsecase) resolveRange(in FinanceRangeInput) (time.Time, time.Time, error) {
	if (in.From == nil) != (in.To == nil) {
		return time.Time{}, time.Time{}, NewHTTPError(http.StatusBadRequest, "from and to must be given together")
	}
	if in.From == nil {
		now := u.clock.Now()
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return from, now, nil
	}
	if in.To.Before(*in.From) {
		return time.Time{}, time.Time{}, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}
	return *in.From, *in.To, nil
}
