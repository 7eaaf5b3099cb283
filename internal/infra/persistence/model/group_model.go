package model

import (
	"time"

	"github.com/google/uuid"
)

// GroupModel mirrors the 'groups' table.
type GroupModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name      string    `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time

	Members []GroupMemberModel `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (GroupModel) TableName() string {
	return "user_groups"
}

// GroupMemberModel mirrors the 'group_members' join table. The composite
// primary key enforces one membership row per (user, group) pair; rows
// cascade when the group or user is deleted.
type GroupMemberModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Role      string    `gorm:"type:varchar(10);not null;default:MEMBER"`
	CreatedAt time.Time

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (GroupMemberModel) TableName() string {
	return "group_members"
}
