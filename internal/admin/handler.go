package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/service"
)

// Reminders - управление напоминаниями. Есть только у процесса бота
type Reminders interface {
	Register(ctx context.Context, userID int64) error
	Unregister(userID int64) bool
}

// Handlers содержит зависимости от сервисов
type Handlers struct {
	Profiles  *service.ProfileService
	Summary   *service.SummaryService
	Meals     *service.MealService
	Clock     service.Clock
	Reminders Reminders

	// Health - проверка хранилища для /healthz
	Health func(ctx context.Context) error
}

type userView struct {
	*models.UserProfile
	Targets service.Targets `json:"targets"`
}

func (h *Handlers) ListUsers(c *gin.Context) {
	profiles, err := h.Profiles.ListProfiles(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	users := make([]userView, 0, len(profiles))
	for _, p := range profiles {
		targets, err := service.TargetsFor(p)
		if err != nil {
			targets = service.DefaultTargets
		}
		users = append(users, userView{UserProfile: p, Targets: targets})
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handlers) GetSummary(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	date, ok := h.dateQuery(c)
	if !ok {
		return
	}

	summary, err := h.Summary.Daily(c.Request.Context(), userID, date)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handlers) ListMeals(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	date, ok := h.dateQuery(c)
	if !ok {
		return
	}

	meals, err := h.Meals.MealsOn(c.Request.Context(), userID, date)
	if err != nil {
		internalError(c, err)
		return
	}
	if meals == nil {
		meals = []models.MealEntry{}
	}
	c.JSON(http.StatusOK, meals)
}

func (h *Handlers) ListFavorites(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}

	favorites, err := h.Meals.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		internalError(c, err)
		return
	}
	if favorites == nil {
		favorites = []models.FavoriteMeal{}
	}
	c.JSON(http.StatusOK, favorites)
}

func (h *Handlers) DeleteFavorite(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	favoriteID, err := strconv.ParseUint(c.Param("fid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid favorite id"})
		return
	}

	err = h.Meals.DeleteFavorite(c.Request.Context(), userID, uint(favoriteID))
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
	case err != nil:
		internalError(c, err)
	default:
		c.Status(http.StatusNoContent)
	}
}

func (h *Handlers) RegisterReminders(c *gin.Context) {
	if h.Reminders == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "scheduler is not running in this process"})
		return
	}
	userID, ok := userParam(c)
	if !ok {
		return
	}

	exists, err := h.Profiles.Exists(c.Request.Context(), userID)
	if err != nil {
		internalError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	if err := h.Reminders.Register(c.Request.Context(), userID); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "registered": true})
}

func (h *Handlers) UnregisterReminders(c *gin.Context) {
	if h.Reminders == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "scheduler is not running in this process"})
		return
	}
	userID, ok := userParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "removed": h.Reminders.Unregister(userID)})
}

func (h *Handlers) Healthz(c *gin.Context) {
	if h.Health != nil {
		if err := h.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func userParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}

// dateQuery: ?date=YYYY-MM-DD, по умолчанию сегодня
func (h *Handlers) dateQuery(c *gin.Context) (string, bool) {
	date := c.Query("date")
	if date == "" {
		return h.Clock.Today(), true
	}
	if !service.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return "", false
	}
	return date, true
}

func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
