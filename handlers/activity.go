package handlers

import (
	"net/http"
	"time"

	activityRepo "classhub/database/repository/activity"
	"classhub/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivityHandler exposes workshop management for staff and admins plus the
// public listing parents book from.
type ActivityHandler struct {
	repo   activityRepo.ActivityRepository
	logger *zap.Logger
}

func NewActivityHandler(repo activityRepo.ActivityRepository, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{repo: repo, logger: logger}
}

type activityInput struct {
	Title     string                 `json:"title"`
	ServiceID string                 `json:"serviceId"`
	StartsAt  time.Time              `json:"startsAt"`
	Capacity  int                    `json:"capacity"`
	Status    string                 `json:"status"`
	Contact   models.ActivityContact `json:"contact"`
}

func validActivityStatus(status string) bool {
	switch status {
	case models.ActivityScheduled, models.ActivityInProgress, models.ActivityCompleted, models.ActivityCancelled:
		return true
	}
	return false
}

// CreateActivity handles POST /api/activities (staff/admin). Occupancy is
// derived and starts at zero regardless of input.
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var input activityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.Title == "" || input.StartsAt.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and start time are required"})
		return
	}
	status := input.Status
	if status == "" {
		status = models.ActivityScheduled
	}
	if !validActivityStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown activity status"})
		return
	}

	activity := &models.Activity{
		ID:        uuid.New().String(),
		Title:     input.Title,
		ServiceID: input.ServiceID,
		StartsAt:  input.StartsAt,
		Capacity:  input.Capacity,
		Status:    status,
		Contact:   input.Contact,
	}
	if err := h.repo.Create(activity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, activity)
}

// UpdateActivity handles PUT /api/activities/:id (staff/admin).
func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	var input activityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.Status != "" && !validActivityStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown activity status"})
		return
	}

	existing, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})
		return
	}

	existing.Title = input.Title
	existing.ServiceID = input.ServiceID
	existing.StartsAt = input.StartsAt
	existing.Capacity = input.Capacity
	if input.Status != "" {
		existing.Status = input.Status
	}
	existing.Contact = input.Contact

	if err := h.repo.Update(existing); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, existing)
}

type activityStatusInput struct {
	Status string `json:"status"`
}

// SetActivityStatus handles PATCH /api/activities/:id/status (staff/admin).
// Only the lifecycle status changes; everything else on the activity is left
// untouched.
func (h *ActivityHandler) SetActivityStatus(c *gin.Context) {
	var input activityStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if !validActivityStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown activity status"})
		return
	}

	existing, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})
		return
	}

	if err := h.repo.SetStatus(existing.ID, input.Status); err != nil {
		respondError(c, err)
		return
	}
	existing.Status = input.Status
	c.JSON(http.StatusOK, existing)
}

// GetActivity handles GET /api/activities/:id.
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	activity, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if activity == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})
		return
	}
	c.JSON(http.StatusOK, activity)
}

// ListActivities handles GET /api/activities.
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	activities, err := h.repo.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}
