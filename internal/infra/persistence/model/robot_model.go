package model

import (
	"time"

	"github.com/google/uuid"
)

// RobotModel mirrors the 'robots' table. Ownership is polymorphic: OwnerID
// points at a user or a group depending on OwnerType, so there is no FK on
// the column and orphan cleanup happens in the transaction that deletes the
// owner.
type RobotModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	SerialNumber string    `gorm:"type:varchar(100);unique;not null"`
	Name         string    `gorm:"type:varchar(100);not null"`
	OwnerType    string    `gorm:"type:varchar(10);not null"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index:idx_robots_owner"`
	CreatedAt    time.Time

	Permissions []RobotPermissionModel `gorm:"foreignKey:RobotID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (RobotModel) TableName() string {
	return "robots"
}

// RobotPermissionModel mirrors the 'robot_permissions' table. The composite
// primary key gives grants upsert semantics per (user, robot) pair.
type RobotPermissionModel struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RobotID        uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	PermissionType string    `gorm:"type:varchar(10);not null;default:USAGE"`
	CreatedAt      time.Time

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (RobotPermissionModel) TableName() string {
	return "robot_permissions"
}
