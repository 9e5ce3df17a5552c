package model

import "time"

type PostAction string

const (
	PostActionCreated PostAction = "created"
	PostActionUpdated PostAction = "updated"
	PostActionDeleted PostAction = "deleted"
)

// PostEvent is one entry of the post activity log.
type PostEvent struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PostID     uint       `gorm:"not null;index" json:"post_id"`
	ActorID    uint       `gorm:"not null;index" json:"actor_id"`
	Action     PostAction `gorm:"size:16;not null" json:"action"`
	OccurredAt time.Time  `gorm:"not null" json:"occurred_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
