package model

import (
	"time"

	"gorm.io/gorm"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post is soft-deleted through DeletedAt; gorm's default scope hides deleted rows.
// The slug index is unique across every row, deleted or not.
type Post struct {
	ID        uint           `gorm:"primaryKey"`
	Title     string         `gorm:"size:255;not null"`
	Slug      string         `gorm:"size:255;not null;uniqueIndex"`
	Content   string         `gorm:"type:text;not null"`
	AuthorID  uint           `gorm:"not null;index"`
	Author    User           `gorm:"foreignKey:AuthorID"`
	Status    PostStatus     `gorm:"size:16;not null;default:draft;index"`
	Tags      []PostTag      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// PostTag keeps one tag of a post; Position preserves the order it was given in.
type PostTag struct {
	ID       uint   `gorm:"primaryKey"`
	PostID   uint   `gorm:"not null;index"`
	Name     string `gorm:"size:64;not null;index"`
	Position int    `gorm:"not null"`
}

// TagNames returns the tag names in display order.
func (p *Post) TagNames() []string {
	names := make([]string, len(p.Tags))
	for i, tag := range p.Tags {
		names[i] = tag.Name
	}
	return names
}

// SetTags replaces the in-memory tag list, numbering positions in input order.
func (p *Post) SetTags(names []string) {
	p.Tags = make([]PostTag, len(names))
	for i, name := range names {
		p.Tags[i] = PostTag{PostID: p.ID, Name: name, Position: i}
	}
}
