package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Stock() StockRepository
	Sales() SaleRepository
	Purchases() PurchaseRepository
	Wines() WineRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返せばロールバック。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
