package request

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/moin-0887/pustak/model"
	rs "github.com/moin-0887/pustak/service/request"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

func uid(c echo.Context) int64 {
	v, _ := c.Get("user_id").(int64)
	return v
}

// POST /v1/requests
func (h *Controller) Create(c echo.Context) error {
	var req CreateRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	start, _ := time.ParseInLocation(time.DateOnly, req.StartDate, time.UTC)
	end, _ := time.ParseInLocation(time.DateOnly, req.EndDate, time.UTC)

	out, err := h.Svc.Create(c.Request().Context(), uid(c), rs.CreateReq{
		ListingID: req.ListingID,
		StartDate: start,
		EndDate:   end,
		Message:   req.Message,
	})
	if err != nil {
		switch rs.Code(err) {
		case rs.ErrListingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "listing not found"})
		case rs.ErrUnavailable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "listing not available"})
		case rs.ErrOwnListing:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "cannot request your own listing"})
		case rs.ErrMissingDates:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "start and end dates are required"})
		case rs.ErrStartInPast:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "start date cannot be in the past"})
		case rs.ErrEndNotAfterStart:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "end date must be after start date"})
		case rs.ErrExceedsMaxDuration:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "duration exceeds the listing's maximum"})
		default:
			h.Log.Error("request create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"data": out})
}

// POST /v1/requests/:id/approve
func (h *Controller) Approve(c echo.Context) error {
	return h.resolve(c, h.Svc.Approve)
}

// POST /v1/requests/:id/reject
func (h *Controller) Reject(c echo.Context) error {
	return h.resolve(c, h.Svc.Reject)
}

func (h *Controller) resolve(c echo.Context, fn func(ctx context.Context, ownerID, requestID int64) (*model.RentalRequest, error)) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	out, err := fn(c.Request().Context(), uid(c), id)
	if err != nil {
		switch rs.Code(err) {
		case rs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "request not found"})
		case rs.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case rs.ErrNotPending:
			return c.JSON(http.StatusConflict, echo.Map{"message": "request already resolved"})
		default:
			h.Log.Error("request resolve", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/requests/incoming
func (h *Controller) Incoming(c echo.Context) error {
	rows, err := h.Svc.Incoming(c.Request().Context(), uid(c))
	if err != nil {
		h.Log.Error("incoming requests", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/requests/outgoing
func (h *Controller) Outgoing(c echo.Context) error {
	rows, err := h.Svc.Outgoing(c.Request().Context(), uid(c))
	if err != nil {
		h.Log.Error("outgoing requests", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
