package activityRepo

import "classhub/models"

// ActivityRepository defines data access for scheduled workshops. The
// occupancy field on an activity is derived; it is only ever written by the
// booking repository's transactional recount, never through Update.
type ActivityRepository interface {
	// GetByID retrieves an activity by its unique ID. Returns (nil, nil)
	// when absent.
	GetByID(id string) (*models.Activity, error)
	// GetAll retrieves all activities, soonest first.
	GetAll() ([]models.Activity, error)
	// Create inserts a new activity record.
	Create(activity *models.Activity) error
	// Update modifies an existing activity record. Occupancy is not touched.
	Update(activity *models.Activity) error
	// SetStatus updates only the lifecycle status of an activity.
	SetStatus(id, status string) error
}
