package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/goshala/goshala/models"
	"github.com/goshala/goshala/utils"
)

// CommentController manages comments: creation under a post, edits, the
// one-level cascade delete and like toggling.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

// CreateComment adds a comment to an existing post. A parentComment id marks
// the comment as a reply; it is stored as given, the parent's post is not
// cross-checked.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	postID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Content       models.LocalizedText `json:"content" binding:"required"`
		ParentComment *uint                `json:"parentComment"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	req.Content = utils.SanitizeLocalized(req.Content)
	if req.Content.IsEmpty() {
		utils.Error(ctx, http.StatusBadRequest, "content cannot be empty")
		return
	}

	var post models.Post
	if err := c.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "Post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}

	userID, _, ok := actingUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	comment := models.Comment{
		PostID:          post.ID,
		AuthorID:        userID,
		ParentCommentID: req.ParentComment,
		Content:         req.Content,
	}
	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create comment")
		return
	}
	if err := c.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}
	comment.Likes = []uint{}

	utils.Created(ctx, comment)
}

// UpdateComment overwrites the comment content and marks it edited, even when
// the new content equals the old. Author or admin only.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	commentID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Content models.LocalizedText `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	req.Content = utils.SanitizeLocalized(req.Content)
	if req.Content.IsEmpty() {
		utils.Error(ctx, http.StatusBadRequest, "content cannot be empty")
		return
	}

	var comment models.Comment
	if err := c.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "Comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}

	userID, role, ok := actingUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !models.CanModerate(userID, role, comment.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, "Not authorized to update this comment")
		return
	}

	updates := map[string]interface{}{
		"content":   req.Content,
		"is_edited": true,
	}
	if err := c.db.Model(&comment).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update comment")
		return
	}
	if err := c.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}

	likedComments := []models.Comment{comment}
	if err := loadCommentLikes(c.db, likedComments); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load likes")
		return
	}
	comment = likedComments[0]

	utils.Success(ctx, comment)
}

// DeleteComment removes a comment and its direct replies. The cascade is one
// level deep: replies of deleted replies are left in place.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	commentID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var comment models.Comment
	if err := c.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "Comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}

	userID, role, ok := actingUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !models.CanModerate(userID, role, comment.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, "Not authorized to delete this comment")
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		childIDs := tx.Model(&models.Comment{}).Select("id").Where("parent_comment_id = ?", comment.ID)
		if err := tx.Where("comment_id IN (?)", childIDs).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_comment_id = ?", comment.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete comment")
		return
	}

	utils.Message(ctx, "Comment deleted successfully")
}

// ToggleCommentLike flips the acting user's membership in the comment's likes
// set, mirroring the post toggle.
func (c *CommentController) ToggleCommentLike(ctx *gin.Context) {
	commentID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var comment models.Comment
	if err := c.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "Comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}

	userID, _, ok := actingUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	res := c.db.Where("comment_id = ? AND user_id = ?", comment.ID, userID).Delete(&models.CommentLike{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to toggle like")
		return
	}
	if res.RowsAffected > 0 {
		utils.Message(ctx, "Comment unliked successfully")
		return
	}

	if err := c.db.Create(&models.CommentLike{CommentID: comment.ID, UserID: userID}).Error; err != nil {
		if !isDuplicateKey(err) {
			utils.Error(ctx, http.StatusInternalServerError, "failed to toggle like")
			return
		}
	}
	utils.Message(ctx, "Comment liked successfully")
}
