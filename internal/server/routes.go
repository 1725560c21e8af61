package server

import (
	"github.com/labstack/echo/v4"

	"winehouse/internal/config"
	"winehouse/internal/repository"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, accountRepo repository.AccountRepository, h Handlers) {
	h.Auth.RegisterRoutes(e)
	h.Wine.RegisterRoutes(e)
	h.AdminWine.RegisterRoutes(e, cfg, accountRepo)
	h.Sale.RegisterRoutes(e, cfg, accountRepo)
	h.Purchase.RegisterRoutes(e, cfg, accountRepo)
	h.Warehouse.RegisterRoutes(e, cfg, accountRepo)
	h.Report.RegisterRoutes(e, cfg, accountRepo)
}
