package rental

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	rs "github.com/moin-0887/pustak/service/rental"
)

type Controller struct {
	Svc rs.Service
	Log *slog.Logger
}

func uid(c echo.Context) int64 {
	v, _ := c.Get("user_id").(int64)
	return v
}

// POST /v1/rentals/:id/return
func (h *Controller) Return(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if err := h.Svc.Return(c.Request().Context(), uid(c), id); err != nil {
		switch rs.Code(err) {
		case rs.ErrNotBorrower:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case rs.ErrAlreadyReturned:
			return c.JSON(http.StatusConflict, echo.Map{"message": "rental already returned"})
		case rs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental not found"})
		default:
			h.Log.Error("rental return", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "returned"})
}

// GET /v1/rentals/my
func (h *Controller) My(c echo.Context) error {
	rows, err := h.Svc.MyRentals(c.Request().Context(), uid(c))
	if err != nil {
		h.Log.Error("my rentals", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
