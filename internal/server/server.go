package server

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"winehouse/internal/config"
	"winehouse/internal/handler"
	"winehouse/internal/middleware"
	"winehouse/internal/repository"
)

// ルーティングに必要なhandler一式
type Handlers struct {
	Auth      *handler.AuthHandler
	Wine      *handler.WineHandler
	AdminWine *handler.AdminWineHandler
	Sale      *handler.SaleHandler
	Purchase  *handler.PurchaseHandler
	Warehouse *handler.WarehouseHandler
	Report    *handler.ReportHandler
}

func New(cfg config.Config, logger zerolog.Logger, accountRepo repository.AccountRepository, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLogger(logger))

	RegisterRoutes(e, cfg, accountRepo, h)
	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
