package models

import (
	"time"
)

// Report lifecycle states. The state machine is forward-only:
// pending -> assigned -> collected. No regression transitions exist.
const (
	StatusPending   = "pending"
	StatusAssigned  = "assigned"
	StatusCollected = "collected"
)

// WasteReport tracks one reported waste accumulation through its lifecycle.
// CollectedAt doubles as the completion idempotency marker: once set, the
// report is finalized and must never be credited again.
type WasteReport struct {
	ID               string     `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ResidentID       string     `json:"residentId" gorm:"index;not null"`
	LocationText     string     `json:"locationText" gorm:"type:varchar(500)"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	WastePhotoURL    string     `json:"wastePhotoUrl"`
	Status           string     `json:"status" gorm:"index;not null;default:pending"`
	AssignedWorkerID string     `json:"assignedWorkerId" gorm:"index"`
	PickupPhotoURL   string     `json:"pickupPhotoUrl"`
	RewardAmount     int        `json:"rewardAmount"`
	CreatedAt        time.Time  `json:"createdAt"`
	CollectedAt      *time.Time `json:"collectedAt"`
}

// IsFinalized reports whether the completion handler already processed
// this report.
func (r *WasteReport) IsFinalized() bool {
	return r.CollectedAt != nil
}

// CreateReportRequest is the client-facing payload for a new report.
// Status is never accepted from the caller; the service always stores
// new reports as pending.
type CreateReportRequest struct {
	LocationText  string  `json:"locationText" binding:"required" conform:"trim"`
	Latitude      float64 `json:"latitude" binding:"required"`
	Longitude     float64 `json:"longitude" binding:"required"`
	WastePhotoURL string  `json:"wastePhotoUrl"`
}

// HandlerResult is the structured outcome of a lifecycle handler
// invocation. Handlers never surface failure through transport status
// codes; callers inspect Success/Error.
type HandlerResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    *WasteReport `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
}
