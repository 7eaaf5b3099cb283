// Package entity contains the core business objects of the project.
package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RobotSetting is an opaque JSON blob keyed by (user, robot). Each user
// keeps independent settings for a shared robot; the payload is never
// interpreted by the backend.
type RobotSetting struct {
	UserID    uuid.UUID       `json:"userId"`
	RobotID   uuid.UUID       `json:"robotId"`
	Settings  json.RawMessage `json:"settings"`
	Robot     *RobotRef       `json:"robot,omitempty"` // Robot identity, populated on listings.
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// RobotRef is the reduced robot shape attached to settings listings.
type RobotRef struct {
	ID           uuid.UUID `json:"id"`
	SerialNumber string    `json:"serialNumber"`
	Name         string    `json:"name"`
}
