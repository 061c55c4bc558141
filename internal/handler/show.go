package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/show-booking/internal/booking"
	"github.com/iliyamo/show-booking/internal/model"
	"github.com/iliyamo/show-booking/internal/repository"
)

// ShowHandler covers show administration for owners and the public browse
// endpoints. Owners manage their own shows only; the repository enforces
// ownership on mutations.
type ShowHandler struct {
	Shows *repository.ShowRepo
}

func NewShowHandler(shows *repository.ShowRepo) *ShowHandler {
	if shows == nil {
		panic("nil repository passed to NewShowHandler")
	}
	return &ShowHandler{Shows: shows}
}

type createShowReq struct {
	Title          string    `json:"title"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Rows           uint32    `json:"rows"`
	SeatsPerRow    uint32    `json:"seats_per_row"`
	BasePriceCents uint32    `json:"base_price_cents"`
}

type showResp struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Rows           uint32    `json:"rows"`
	SeatsPerRow    uint32    `json:"seats_per_row"`
	BasePriceCents uint32    `json:"base_price_cents"`
	Status         string    `json:"status"`
}

func toShowResp(s *model.Show) showResp {
	return showResp{
		ID:             s.ID,
		Title:          s.Title,
		StartsAt:       s.StartsAt,
		EndsAt:         s.EndsAt,
		Rows:           s.Rows,
		SeatsPerRow:    s.SeatsPerRow,
		BasePriceCents: s.BasePriceCents,
		Status:         s.Status,
	}
}

// CreateShow handles POST /v1/shows for owners. The seat grid is fixed at
// creation time; every booking validates labels against it afterwards.
func (h *ShowHandler) CreateShow(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createShowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.Rows == 0 || req.SeatsPerRow == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows and seats_per_row must be positive"})
	}
	if req.StartsAt.IsZero() || !req.EndsAt.After(req.StartsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show times"})
	}

	show := &model.Show{
		OwnerID:        ownerID,
		Title:          req.Title,
		StartsAt:       req.StartsAt.UTC(),
		EndsAt:         req.EndsAt.UTC(),
		Rows:           req.Rows,
		SeatsPerRow:    req.SeatsPerRow,
		BasePriceCents: req.BasePriceCents,
		Status:         "SCHEDULED",
	}
	if err := h.Shows.Create(c.Request().Context(), show); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create show failed"})
	}
	return c.JSON(http.StatusCreated, toShowResp(show))
}

// GetShow handles GET /v1/shows/:id, a public show detail endpoint.
func (h *ShowHandler) GetShow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	show, err := h.Shows.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toShowResp(show))
}

// ListShows handles GET /v1/shows. Upcoming scheduled shows, soonest
// first. The optional ?limit parameter caps the page size at 100.
func (h *ShowHandler) ListShows(c echo.Context) error {
	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}
	shows, err := h.Shows.ListUpcoming(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]showResp, 0, len(shows))
	for i := range shows {
		out = append(out, toShowResp(&shows[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": out})
}
