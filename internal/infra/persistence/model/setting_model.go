package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RobotSettingModel mirrors the 'robot_settings' table. Settings is an
// opaque JSON document owned by the client; the backend never inspects it.
type RobotSettingModel struct {
	UserID    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	RobotID   uuid.UUID      `gorm:"type:uuid;primaryKey;index"`
	Settings  datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Robot *RobotModel `gorm:"foreignKey:RobotID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (RobotSettingModel) TableName() string {
	return "robot_settings"
}
