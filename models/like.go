package models

import "time"

// PostLike is one membership row of a post's likes set. The composite unique
// index enforces the at-most-once invariant; toggling is a keyed delete
// followed by an insert when nothing was deleted, so concurrent toggles by
// the same user cannot produce duplicate memberships.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index:idx_post_like,unique;not null" json:"post_id"`
	UserID    uint      `gorm:"index:idx_post_like,unique;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentLike is one membership row of a comment's likes set.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"index:idx_comment_like,unique;not null" json:"comment_id"`
	UserID    uint      `gorm:"index:idx_comment_like,unique;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
