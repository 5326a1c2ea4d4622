package listing

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/moin-0887/pustak/model"
	listingrepo "github.com/moin-0887/pustak/repository/listing"
	ls "github.com/moin-0887/pustak/service/listing"
)

const maxCoverBytes = 5 << 20

type Controller struct {
	Svc ls.Service
	V   *validator.Validate
	Log *slog.Logger
}

func uid(c echo.Context) int64 {
	v, _ := c.Get("user_id").(int64)
	return v
}

// POST /v1/listings
func (h *Controller) Create(c echo.Context) error {
	var req CreateListingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	l := &model.Listing{
		OwnerID:         uid(c),
		Title:           req.Title,
		Author:          req.Author,
		Genre:           req.Genre,
		Description:     req.Description,
		ISBN:            req.ISBN,
		Condition:       model.Condition(req.Condition),
		PublicationYear: req.PublicationYear,
		PricePerDay:     req.PricePerDay,
		MaxRentalDays:   req.MaxRentalDays,
	}
	if req.CoverURL != "" {
		l.CoverURL = &req.CoverURL
	}

	if err := h.Svc.Create(c.Request().Context(), l); err != nil {
		if ls.Code(err) == ls.ErrBadInput {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		}
		h.Log.Error("listing create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": l})
}

// GET /v1/listings
func (h *Controller) Browse(c echo.Context) error {
	f := listingrepo.Filter{
		Genre:  c.QueryParam("genre"),
		Search: c.QueryParam("q"),
	}
	if v := c.QueryParam("available"); v != "" {
		f.AvailableOnly, _ = strconv.ParseBool(v)
	}

	rows, err := h.Svc.Browse(c.Request().Context(), f)
	if err != nil {
		h.Log.Error("listing browse", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/listings/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if ls.Code(err) == ls.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		}
		h.Log.Error("listing detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": row})
}

// GET /v1/listings/my
func (h *Controller) My(c echo.Context) error {
	rows, err := h.Svc.MyListings(c.Request().Context(), uid(c))
	if err != nil {
		h.Log.Error("my listings", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PATCH /v1/listings/:id/availability
func (h *Controller) SetAvailability(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req SetAvailabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}

	if err := h.Svc.SetAvailability(c.Request().Context(), uid(c), id, *req.Available); err != nil {
		return h.mapErr(c, "set availability", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// DELETE /v1/listings/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), uid(c), id); err != nil {
		return h.mapErr(c, "listing delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// POST /v1/listings/cover  (multipart field "cover")
func (h *Controller) UploadCover(c echo.Context) error {
	fh, err := c.FormFile("cover")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing cover file"})
	}
	if fh.Size > maxCoverBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"message": "cover too large"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "unreadable file"})
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxCoverBytes+1))
	if err != nil || int64(len(data)) > maxCoverBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "unreadable file"})
	}

	url, err := h.Svc.UploadCover(c.Request().Context(), fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		if ls.Code(err) == ls.ErrBadInput {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "empty file"})
		}
		h.Log.Error("cover upload", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"message": "upload failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"cover_url": url})
}

func (h *Controller) mapErr(c echo.Context, op string, err error) error {
	switch ls.Code(err) {
	case ls.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	case ls.ErrNotOwner:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	case ls.ErrHasActiveRental:
		return c.JSON(http.StatusConflict, echo.Map{"message": "listing has an active rental"})
	case ls.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
