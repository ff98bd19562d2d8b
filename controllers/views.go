package controllers

import (
	"time"

	"gorm.io/gorm"

	"github.com/goshala/goshala/models"
)

// postView is a post projected to a single locale for listing and detail
// responses. Mutation responses return the raw multilingual model instead.
type postView struct {
	ID             uint                  `json:"id"`
	Title          string                `json:"title"`
	Content        string                `json:"content"`
	Author         models.User           `json:"author"`
	Category       string                `json:"category"`
	Tags           models.StringList     `json:"tags"`
	Likes          []uint                `json:"likes"`
	Views          uint64                `json:"views"`
	Attachments    models.AttachmentList `json:"attachments"`
	IsSticky       bool                  `json:"isSticky"`
	IsAnnouncement bool                  `json:"isAnnouncement"`
	Status         string                `json:"status"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`

	Comments []commentView `json:"comments,omitempty"`
}

// commentView is a comment projected to a single locale, carrying one
// populated reply level.
type commentView struct {
	ID              uint          `json:"id"`
	PostID          uint          `json:"post_id"`
	Content         string        `json:"content"`
	Author          models.User   `json:"author"`
	ParentCommentID *uint         `json:"parentComment,omitempty"`
	Likes           []uint        `json:"likes"`
	IsEdited        bool          `json:"isEdited"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Replies         []commentView `json:"replies"`
}

func newPostView(p models.Post, lang string) postView {
	likes := p.Likes
	if likes == nil {
		likes = []uint{}
	}
	tags := p.Tags
	if tags == nil {
		tags = models.StringList{}
	}
	attachments := p.Attachments
	if attachments == nil {
		attachments = models.AttachmentList{}
	}
	return postView{
		ID:             p.ID,
		Title:          p.Title.Resolve(lang),
		Content:        p.Content.Resolve(lang),
		Author:         p.Author,
		Category:       p.Category,
		Tags:           tags,
		Likes:          likes,
		Views:          p.Views,
		Attachments:    attachments,
		IsSticky:       p.IsSticky,
		IsAnnouncement: p.IsAnnouncement,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func newPostViews(posts []models.Post, lang string) []postView {
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(p, lang))
	}
	return views
}

func newCommentView(c models.Comment, lang string) commentView {
	likes := c.Likes
	if likes == nil {
		likes = []uint{}
	}
	view := commentView{
		ID:              c.ID,
		PostID:          c.PostID,
		Content:         c.Content.Resolve(lang),
		Author:          c.Author,
		ParentCommentID: c.ParentCommentID,
		Likes:           likes,
		IsEdited:        c.IsEdited,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Replies:         []commentView{},
	}
	for _, r := range c.Replies {
		view.Replies = append(view.Replies, newCommentView(r, lang))
	}
	return view
}

func newCommentViews(comments []models.Comment, lang string) []commentView {
	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, newCommentView(c, lang))
	}
	return views
}

// attachReplies hangs each reply under its parent in the given top-level
// slice. Exactly one level is populated; replies whose parent is not in the
// slice (grandchildren and deeper) are left unattached.
func attachReplies(topLevel, replies []models.Comment) []models.Comment {
	index := make(map[uint]int, len(topLevel))
	for i := range topLevel {
		topLevel[i].Replies = []models.Comment{}
		index[topLevel[i].ID] = i
	}
	for _, r := range replies {
		if r.ParentCommentID == nil {
			continue
		}
		if i, ok := index[*r.ParentCommentID]; ok {
			topLevel[i].Replies = append(topLevel[i].Replies, r)
		}
	}
	return topLevel
}

// loadPostLikes fills the Likes slice of each post from the post_likes rows
// in a single query.
func loadPostLikes(db *gorm.DB, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	var rows []models.PostLike
	if err := db.Where("post_id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return err
	}
	byPost := make(map[uint][]uint, len(posts))
	for _, row := range rows {
		byPost[row.PostID] = append(byPost[row.PostID], row.UserID)
	}
	for i := range posts {
		if likes, ok := byPost[posts[i].ID]; ok {
			posts[i].Likes = likes
		} else {
			posts[i].Likes = []uint{}
		}
	}
	return nil
}

// loadCommentLikes fills the Likes slice of each comment, including already
// attached replies, in a single query.
func loadCommentLikes(db *gorm.DB, comments []models.Comment) error {
	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
		for _, r := range c.Replies {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	var rows []models.CommentLike
	if err := db.Where("comment_id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return err
	}
	byComment := make(map[uint][]uint, len(ids))
	for _, row := range rows {
		byComment[row.CommentID] = append(byComment[row.CommentID], row.UserID)
	}
	assign := func(c *models.Comment) {
		if likes, ok := byComment[c.ID]; ok {
			c.Likes = likes
		} else {
			c.Likes = []uint{}
		}
	}
	for i := range comments {
		assign(&comments[i])
		for j := range comments[i].Replies {
			assign(&comments[i].Replies[j])
		}
	}
	return nil
}
