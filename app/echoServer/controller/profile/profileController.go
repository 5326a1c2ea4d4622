package profile

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/moin-0887/pustak/model"
	ps "github.com/moin-0887/pustak/service/profile"
)

type UpdateProfileReq struct {
	FullName  string `json:"full_name" validate:"required"`
	Username  string `json:"username" validate:"required,min=3"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

type Controller struct {
	Svc ps.Service
	V   *validator.Validate
	Log *slog.Logger
}

func uid(c echo.Context) int64 {
	v, _ := c.Get("user_id").(int64)
	return v
}

// GET /v1/profile
func (h *Controller) Get(c echo.Context) error {
	p, err := h.Svc.Get(c.Request().Context(), uid(c))
	if err != nil {
		if errors.Is(err, ps.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		}
		h.Log.Error("profile get", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": p})
}

// PUT /v1/profile
func (h *Controller) Update(c echo.Context) error {
	var req UpdateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	p := &model.Profile{
		UserID:   uid(c),
		FullName: req.FullName,
		Username: req.Username,
	}
	if req.AvatarURL != "" {
		p.AvatarURL = &req.AvatarURL
	}

	out, err := h.Svc.Update(c.Request().Context(), p)
	if err != nil {
		switch {
		case errors.Is(err, ps.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		case errors.Is(err, ps.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, echo.Map{"message": "username already taken"})
		case errors.Is(err, ps.ErrBadInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("profile update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}
