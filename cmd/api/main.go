package main

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"winehouse/internal/config"
	"winehouse/internal/domain/model"
	"winehouse/internal/handler"
	"winehouse/internal/infra/db"
	infraRepo "winehouse/internal/infra/repository"
	"winehouse/internal/server"
	"winehouse/internal/usecase"
	auth "winehouse/internal/usecase/auth_usecase"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	//アクセストークン
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 15 * time.Minute,
	}
}

func (i *jwtIssuer) Issue(accountID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  accountID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無くてもよい（compose等で環境変数を直接渡す場合）
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//構造化ログ
	level, lerr := zerolog.ParseLevel(cfg.LogLevel)
	if lerr != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "winehouse").Logger().Level(level)

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Account{},
		&model.Wine{},
		&model.Warehouse{},
		&model.Aisle{},
		&model.Shelf{},
		&model.StockEntry{},
		&model.StockMovement{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Purchase{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	accountRepo := infraRepo.NewAccountGormRepository(gormDB)
	wineRepo := infraRepo.NewWineGormRepository(gormDB)
	stockRepo := infraRepo.NewStockGormRepository(gormDB)
	saleRepo := infraRepo.NewSaleGormRepository(gormDB)
	purchaseRepo := infraRepo.NewPurchaseGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//JWT issuer
	issuer := newJWTIssuer(cfg.JWTSecret)

	//Usecase生成
	registerUC := auth.NewRegisterAccountUsecase(accountRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(accountRepo, verifier, issuer, clock)

	wineUC := usecase.NewWineUsecase(wineRepo, stockRepo)
	stockUC := usecase.NewStockUsecase(txManager, stockRepo)
	saleUC := usecase.NewSaleUsecase(txManager, saleRepo, wineRepo, stockUC, idGen)
	purchaseUC := usecase.NewPurchaseUsecase(purchaseRepo, wineRepo)
	financeUC := usecase.NewFinanceUsecase(saleRepo, purchaseRepo, clock)
	reportUC := usecase.NewReportUsecase(wineRepo, stockRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:      handler.NewAuthHandler(registerUC, loginUC),
		Wine:      handler.NewWineHandler(wineUC),
		AdminWine: handler.NewAdminWineHandler(wineUC),
		Sale:      handler.NewSaleHandler(saleUC),
		Purchase:  handler.NewPurchaseHandler(purchaseUC),
		Warehouse: handler.NewWarehouseHandler(stockUC),
		Report:    handler.NewReportHandler(reportUC, financeUC),
	}

	//Server起動
	e := server.New(cfg, logger, accountRepo, handlers)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	logger.Info().Str("addr", addr).Msg("starting server")
	if err := server.Start(e, addr); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
