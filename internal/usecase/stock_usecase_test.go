package usecase_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"winehouse/internal/domain/model"
	repo "winehouse/internal/repository"
	"winehouse/internal/usecase"
)

// =====================
// Fakes（在庫はメモリ上で本物と同じ動きをさせる）
// =====================

type fakeStockRepo struct {
	warehouses map[int64]string // id -> location
	aisles     []model.Aisle
	shelves    []model.Shelf
	entries    []*model.StockEntry
	movements  []model.StockMovement

	nextID int64

	// DeductEntryを指定回数だけ競合負けさせる
	failDeducts int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{warehouses: map[int64]string{}, nextID: 1}
}

func (f *fakeStockRepo) id() int64 {
	v := f.nextID
	f.nextID++
	return v
}

func (f *fakeStockRepo) addWarehouse(location string) int64 {
	id := f.id()
	f.warehouses[id] = location
	return id
}

// テスト準備用。倉庫/通路/棚/エントリを一気に作る。
func (f *fakeStockRepo) seed(warehouseID int64, aisle, shelf string, wineID, qty int64) {
	a, err := f.FindAisle(context.Background(), warehouseID, aisle)
	if errors.Is(err, repo.ErrNotFound) {
		aid, _ := f.CreateAisle(context.Background(), model.Aisle{WarehouseID: warehouseID, Label: aisle})
		a = model.Aisle{ID: aid, WarehouseID: warehouseID, Label: aisle}
	}
	s, err := f.FindShelf(context.Background(), a.ID, shelf)
	if errors.Is(err, repo.ErrNotFound) {
		sid, _ := f.CreateShelf(context.Background(), model.Shelf{AisleID: a.ID, Label: shelf})
		s = model.Shelf{ID: sid, AisleID: a.ID, Label: shelf}
	}
	_ = f.CreateEntry(context.Background(), model.StockEntry{ShelfID: s.ID, WineID: wineID, Quantity: qty})
}

func (f *fakeStockRepo) Locate(ctx context.Context, wineID int64) ([]repo.StockLocation, error) {
	var locs []repo.StockLocation
	for _, e := range f.entries {
		if e.WineID != wineID {
			continue
		}
		var shelf model.Shelf
		for _, s := range f.shelves {
			if s.ID == e.ShelfID {
				shelf = s
			}
		}
		var aisle model.Aisle
		for _, a := range f.aisles {
			if a.ID == shelf.AisleID {
				aisle = a
			}
		}
		locs = append(locs, repo.StockLocation{
			WarehouseID: aisle.WarehouseID,
			Aisle:       aisle.Label,
			Shelf:       shelf.Label,
			EntryID:     e.ID,
			Quantity:    e.Quantity,
		})
	}
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].Quantity != locs[j].Quantity {
			return locs[i].Quantity < locs[j].Quantity
		}
		return locs[i].EntryID < locs[j].EntryID
	})
	return locs, nil
}

func (f *fakeStockRepo) Total(ctx context.Context, wineID int64) (int64, error) {
	var total int64
	for _, e := range f.entries {
		if e.WineID == wineID {
			total += e.Quantity
		}
	}
	return total, nil
}

func (f *fakeStockRepo) DeductEntry(ctx context.Context, entryID int64, qty int64) (bool, error) {
	if f.failDeducts > 0 {
		f.failDeducts--
		return false, nil
	}
	for _, e := range f.entries {
		if e.ID == entryID {
			if e.Quantity < qty {
				return false, nil
			}
			e.Quantity -= qty
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStockRepo) WarehouseExists(ctx context.Context, id int64) (bool, error) {
	_, ok := f.warehouses[id]
	return ok, nil
}

func (f *fakeStockRepo) FindWarehouseByLocation(ctx context.Context, location string) (model.Warehouse, error) {
	for id, loc := range f.warehouses {
		if loc == location {
			return model.Warehouse{ID: id, Location: loc}, nil
		}
	}
	return model.Warehouse{}, repo.ErrNotFound
}

func (f *fakeStockRepo) CreateWarehouse(ctx context.Context, w model.Warehouse) (int64, error) {
	return f.addWarehouse(w.Location), nil
}

func (f *fakeStockRepo) FindAisle(ctx context.Context, warehouseID int64, label string) (model.Aisle, error) {
	for _, a := range f.aisles {
		if a.WarehouseID == warehouseID && a.Label == label {
			return a, nil
		}
	}
	return model.Aisle{}, repo.ErrNotFound
}

func (f *fakeStockRepo) CreateAisle(ctx context.Context, a model.Aisle) (int64, error) {
	a.ID = f.id()
	f.aisles = append(f.aisles, a)
	return a.ID, nil
}

func (f *fakeStockRepo) FindShelf(ctx context.Context, aisleID int64, label string) (model.Shelf, error) {
	for _, s := range f.shelves {
		if s.AisleID == aisleID && s.Label == label {
			return s, nil
		}
	}
	return model.Shelf{}, repo.ErrNotFound
}

func (f *fakeStockRepo) CreateShelf(ctx context.Context, s model.Shelf) (int64, error) {
	s.ID = f.id()
	f.shelves = append(f.shelves, s)
	return s.ID, nil
}

func (f *fakeStockRepo) FindEntry(ctx context.Context, shelfID int64, wineID int64) (model.StockEntry, error) {
	for _, e := range f.entries {
		if e.ShelfID == shelfID && e.WineID == wineID {
			return *e, nil
		}
	}
	return model.StockEntry{}, repo.ErrNotFound
}

func (f *fakeStockRepo) CreateEntry(ctx context.Context, e model.StockEntry) error {
	e.ID = f.id()
	f.entries = append(f.entries, &e)
	return nil
}

func (f *fakeStockRepo) IncrementEntry(ctx context.Context, entryID int64, qty int64) error {
	for _, e := range f.entries {
		if e.ID == entryID {
			e.Quantity += qty
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeStockRepo) CreateMovement(ctx context.Context, m model.StockMovement) error {
	m.ID = f.id()
	f.movements = append(f.movements, m)
	return nil
}

// スナップショット/リストア。fakeTxManagerのロールバックに使う。
func (f *fakeStockRepo) snapshot() []model.StockEntry {
	out := make([]model.StockEntry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, *e)
	}
	return out
}

func (f *fakeStockRepo) restore(snap []model.StockEntry, movements int) {
	f.entries = f.entries[:0]
	for _, e := range snap {
		copied := e
		f.entries = append(f.entries, &copied)
	}
	f.movements = f.movements[:movements]
}

// =====================
// fakeTxManager（エラー時は在庫をロールバックする）
// =====================

type fakeTxRepos struct {
	stock     repo.StockRepository
	sales     repo.SaleRepository
	purchases repo.PurchaseRepository
	wines     repo.WineRepository
}

func (r *fakeTxRepos) Stock() repo.StockRepository        { return r.stock }
func (r *fakeTxRepos) Sales() repo.SaleRepository         { return r.sales }
func (r *fakeTxRepos) Purchases() repo.PurchaseRepository { return r.purchases }
func (r *fakeTxRepos) Wines() repo.WineRepository         { return r.wines }

type fakeTxManager struct {
	stock *fakeStockRepo
	sales repo.SaleRepository
}

func (tm *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	snap := tm.stock.snapshot()
	movements := len(tm.stock.movements)

	err := fn(&fakeTxRepos{stock: tm.stock, sales: tm.sales})
	if err != nil {
		tm.stock.restore(snap, movements)
	}
	return err
}

func newStockUsecase(stock *fakeStockRepo) *usecase.StockUsecase {
	return usecase.NewStockUsecase(&fakeTxManager{stock: stock}, stock)
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		t.Fatalf("not an HTTPError: %v", err)
	}
	return he.Status
}

// =====================
// Allocate
// =====================

func TestStockUsecase_Allocate_SingleShelfExactFit(t *testing.T) {
	stock := newFakeStockRepo()
	wh := stock.addWarehouse("bodega norte")
	stock.seed(wh, "A", "1", 10, 6)

	uc := newStockUsecase(stock)

	res, err := uc.Allocate(context.Background(), 10, 6)
	assert.NoError(t, err)
	assert.True(t, res.Fulfilled)
	assert.Equal(t, int64(6), res.Available)
	assert.Len(t, res.Deductions, 1)
	assert.Equal(t, int64(6), res.Deductions[0].Quantity)

	total, _ := stock.Total(context.Background(), 10)
	assert.Equal(t, int64(0), total)
}

func TestStockUsecase_Allocate_SmallestShelvesFirst(t *testing.T) {
	stock := newFakeStockRepo()
	wh := stock.addWarehouse("bodega norte")
	stock.seed(wh, "A", "1", 10, 8)
	stock.seed(wh, "A", "2", 10, 2)
	stock.seed(wh, "B", "1", 10, 5)

	uc := newStockUsecase(stock)

	// 2 + 5 + 足りない分1 を 8 の棚から
	res, err := uc.Allocate(context.Background(), 10, 8)
	assert.NoError(t, err)
	assert.True(t, res.Fulfilled)
	assert.Equal(t, int64(15), res.Available)
	assert.Len(t, res.Deductions, 3)
	assert.Equal(t, int64(2), res.Deductions[0].Quantity)
	assert.Equal(t, int64(5), res.Deductions[1].Quantity)
	assert.Equal(t, int64(1), res.Deductions[2].Quantity)

	// 減った合計 = 要求量（保存則）
	total, _ := stock.Total(context.Background(), 10)
	assert.Equal(t, int64(7), total)
}

func TestStockUsecase_Allocate_InsufficientRefusesWithoutPartialDeduction(t *testing.T) {
	stock := newFakeStockRepo()
	wh := stock.addWarehouse("bodega norte")
	stock.seed(wh, "A", "1", 10, 3)
	stock.seed(wh, "A", "2", 10, 4)

	uc := newStockUsecase(stock)

	res, err := uc.Allocate(context.Background(), 10, 8)
	assert.NoError(t, err)
	assert.False(t, res.Fulfilled)
	assert.Equal(t, int64(7), res.Available)
	assert.Empty(t, res.Deductions)

	// 1本も減っていない
	total, _ := stock.Total(context.Background(), 10)
	assert.Equal(t, int64(7), total)
}

func TestStockUsecase_Allocate_UnknownWineRefused(t *testing.T) {
	stock := newFakeStockRepo()
	uc := newStockUsecase(stock)

	res, err := uc.Allocate(context.Background(), 99, 1)
	assert.NoError(t, err)
	assert.False(t, res.Fulfilled)
	assert.Equal(t, int64(0), res.Available)
}

func TestStockUsecase_Allocate_RetriesAfterGuardFailure(t *testing.T) {
	stock := newFakeStockRepo()
	wh := stock.addWarehouse("bodega norte")
	stock.seed(wh, "A", "1", 10, 5)
	stock.failDeducts = 1 // 1回目は競合負け

	uc := newStockUsecase(stock)

	res, err := uc.Allocate(context.Background(), 10, 3)
	assert.NoError(t, err)
	assert.True(t, res.Fulfilled)

	total, _ := stock.Total(context.Background(), 10)
	assert.Equal(t, int64(2), total)
}

func TestStockUsecase_Allocate_ConflictAfterRetriesExhausted(t *testing.T) {
	stock := newFakeStockRepo()
	wh := stock.addWarehouse("bodega norte")
	stock.seed(wh, "A", "1", 10, 5)
	stock.failDeducts = 100 // 競合負けし続ける

	uc := newStockUsecase(stock)

	_, err := uc.Allocate(context.Background(), 10, 3)
	assert.Error(t, err)
	assert.Equal(t, 409, httpStatus(t, err))

	// ロールバックされて在庫は無傷
	total, _ := stock.Total(context.Background(), 10)
	assert.Equal(t, int64(5), total)
}

func TestStockUsecase_Allocate_InvalidInput(t *testing.T) {
	uc := newStockUsecase(newFakeStockRepo())

	_, err := uc.Allocate(context.Background(), 0, 3)
	assert.Equal(t, 400, httpStatus(t, err))

	_, err = uc.Allocate(context.Background(), 10, 0)
	assert.Equal(t, 400, httpStatus(t, err))

	_, err = uc.Allocate(context.Background(), 10, -2)
	assert.Equal(t, 400, httpStatus(t, err))
}

func TestStockUsecase_Allocate_RecordsSaleMovements(t *testing.T) {
	stock := newFakeStockRepo()
	wh := stock.addWarehouse("bodega norte")
	stock.seed(wh, "A", "1", 10, 5)

	uc := newStockUsecase(stock)

	_, err := uc.Allocate(context.Background(), 10, 3)
	assert.NoError(t, err)

	assert.Len(t, stock.movements, 1)
	assert.Equal(t, model.MovementSale, stock.movements[0].Kind)
	assert.Equal(t, int64(-3), stock.movements[0].Delta)
}

// =====================
// AddStock
// =====================

func TestStockUsecase_AddStock_IncrementsExistingEntry(t *testing.T) {
	stock := newFakeStockRepo()
	wh := stock.addWarehouse("bodega norte")
	stock.seed(wh, "A", "1", 10, 5)

	uc := newStockUsecase(stock)

	err := uc.AddStock(context.Background(), usecase.AddStockInput{
		WarehouseID: wh, Aisle: "A", Shelf: "1", WineID: 10, Quantity: 7,
	})
	assert.NoError(t, err)

	total, _ := stock.Total(context.Background(), 10)
	assert.Equal(t, int64(12), total)

	// 1棚1ワイン1行のまま
	locs, _ := stock.Locate(context.Background(), 10)
	assert.Len(t, locs, 1)
}

func TestStockUsecase_AddStock_CreatesAisleShelfEntry(t *testing.T) {
	stock := newFakeStockRepo()
	wh := stock.addWarehouse("bodega norte")

	uc := newStockUsecase(stock)

	err := uc.AddStock(context.Background(), usecase.AddStockInput{
		WarehouseID: wh, Aisle: "C", Shelf: "3", WineID: 42, Quantity: 12,
	})
	assert.NoError(t, err)

	locs, _ := stock.Locate(context.Background(), 42)
	assert.Len(t, locs, 1)
	assert.Equal(t, "C", locs[0].Aisle)
	assert.Equal(t, "3", locs[0].Shelf)
	assert.Equal(t, int64(12), locs[0].Quantity)
}

func TestStockUsecase_AddStock_UnknownWarehouse(t *testing.T) {
	uc := newStockUsecase(newFakeStockRepo())

	err := uc.AddStock(context.Background(), usecase.AddStockInput{
		WarehouseID: 999, Aisle: "A", Shelf: "1", WineID: 10, Quantity: 5,
	})
	assert.Equal(t, 404, httpStatus(t, err))
}

func TestStockUsecase_AddStock_Validation(t *testing.T) {
	stock := newFakeStockRepo()
	wh := stock.addWarehouse("bodega norte")
	uc := newStockUsecase(stock)

	err := uc.AddStock(context.Background(), usecase.AddStockInput{
		WarehouseID: wh, Aisle: "", Shelf: "1", WineID: 10, Quantity: 5,
	})
	assert.Equal(t, 400, httpStatus(t, err))

	err = uc.AddStock(context.Background(), usecase.AddStockInput{
		WarehouseID: wh, Aisle: "A", Shelf: "1", WineID: 10, Quantity: 0,
	})
	assert.Equal(t, 400, httpStatus(t, err))
}

func TestStockUsecase_AddStock_RecordsRestockMovement(t *testing.T) {
	stock := newFakeStockRepo()
	wh := stock.addWarehouse("bodega norte")
	uc := newStockUsecase(stock)

	err := uc.AddStock(context.Background(), usecase.AddStockInput{
		WarehouseID: wh, Aisle: "A", Shelf: "1", WineID: 10, Quantity: 5,
	})
	assert.NoError(t, err)

	assert.Len(t, stock.movements, 1)
	assert.Equal(t, model.MovementRestock, stock.movements[0].Kind)
	assert.Equal(t, int64(5), stock.movements[0].Delta)
}

// =====================
// ResolveWarehouse / Locate
// =====================

func TestStockUsecase_ResolveWarehouse_FindsExisting(t *testing.T) {
	stock := newFakeStockRepo()
	wh := stock.addWarehouse("bodega norte")
	uc := newStockUsecase(stock)

	id, err := uc.ResolveWarehouse(context.Background(), "bodega norte")
	assert.NoError(t, err)
	assert.Equal(t, wh, id)
}

func TestStockUsecase_ResolveWarehouse_CreatesMissing(t *testing.T) {
	stock := newFakeStockRepo()
	uc := newStockUsecase(stock)

	id, err := uc.ResolveWarehouse(context.Background(), "bodega sur")
	assert.NoError(t, err)
	assert.Greater(t, id, int64(0))

	again, err := uc.ResolveWarehouse(context.Background(), "bodega sur")
	assert.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestStockUsecase_ResolveWarehouse_EmptyLocation(t *testing.T) {
	uc := newStockUsecase(newFakeStockRepo())

	_, err := uc.ResolveWarehouse(context.Background(), "   ")
	assert.Equal(t, 400, httpStatus(t, err))
}

func TestStockUsecase_Locate_OrderedByQuantity(t *testing.T) {
	stock := newFakeStockRepo()
	wh := stock.addWarehouse("bodega norte")
	stock.seed(wh, "A", "1", 10, 9)
	stock.seed(wh, "B", "1", 10, 1)
	stock.seed(wh, "B", "2", 10, 4)

	uc := newStockUsecase(stock)

	locs, err := uc.Locate(context.Background(), 10)
	assert.NoError(t, err)
	assert.Len(t, locs, 3)
	assert.Equal(t, int64(1), locs[0].Quantity)
	assert.Equal(t, int64(4), locs[1].Quantity)
	assert.Equal(t, int64(9), locs[2].Quantity)
}
