package models

import "time"

// Comment represents a reply to a post. A nil ParentCommentID marks a
// top-level comment; replies reference their parent comment. Read paths
// populate exactly one reply level.
type Comment struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	PostID          uint          `gorm:"index;not null" json:"post_id"`
	AuthorID        uint          `gorm:"index;not null" json:"author_id"`
	ParentCommentID *uint         `gorm:"index" json:"parentComment,omitempty"`
	Content         LocalizedText `gorm:"type:json;not null" json:"content"`
	IsEdited        bool          `gorm:"default:false" json:"isEdited"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Author          User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`

	// Likes carries the ids of users who liked the comment. Not a column.
	Likes []uint `gorm:"-" json:"likes"`
	// Replies holds the direct children, populated on read. Not a column.
	Replies []Comment `gorm:"-" json:"replies,omitempty"`
}
