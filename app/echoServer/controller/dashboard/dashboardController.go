package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moin-0887/pustak/app/echoServer/jwtx"
	ds "github.com/moin-0887/pustak/service/dashboard"
)

type Controller struct {
	Svc ds.Service
	Log *slog.Logger
}

// GET /v1/dashboard
func (h *Controller) Summary(c echo.Context) error {
	uidv, err := jwtx.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	out, err := h.Svc.Summary(c.Request().Context(), uidv)
	if err != nil {
		h.Log.Error("dashboard summary", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}
