package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/forgebyte/storefront/internal/logging"
	"github.com/forgebyte/storefront/internal/models"
)

type ReviewHandler struct {
	DB *gorm.DB
}

func (h *ReviewHandler) List(c echo.Context) error {
	var reviews []models.Review
	if err := h.DB.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review_create")

	var req struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Rating  uint   `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create_review_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	review := models.Review{
		Email:     req.Email,
		Name:      req.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().Unix(),
	}
	if err := h.DB.Create(&review).Error; err != nil {
		l.Error("create_review_error", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, review)
}
