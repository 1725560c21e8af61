package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"winehouse/internal/repository"
)

// JWTが有効でもDB側で停止されたアカウントは弾く。
func ActiveAccountGuard(accountRepo repository.AccountRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたaccount_idを取得する
			rawID := c.Get(CtxAccountIDKey)
			accountID, ok := rawID.(int64)
			if !ok || accountID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//DBから最新のアカウントを取得する
			account, err := accountRepo.FindByID(c.Request().Context(), accountID)
			if err != nil || account == nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//停止済みなら強制ログアウト扱い（401）
			if !account.IsActive {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			return next(c)
		}
	}
}
