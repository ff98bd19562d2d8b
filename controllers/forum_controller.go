package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/goshala/goshala/config"
	"github.com/goshala/goshala/middleware"
	"github.com/goshala/goshala/models"
	"github.com/goshala/goshala/utils"
)

// ForumController manages posts: listing with sticky partitioning, detail
// with populated comments, CRUD, like toggling and attachment uploads.
type ForumController struct {
	db *gorm.DB
}

// NewForumController creates a new ForumController instance.
func NewForumController(db *gorm.DB) *ForumController {
	return &ForumController{db: db}
}

// ListCategories returns the fixed forum category set.
func (f *ForumController) ListCategories(ctx *gin.Context) {
	utils.Success(ctx, models.Categories())
}

// postRequest is the create/update payload. Locale maps replace wholesale:
// omitted locales are not preserved on update.
type postRequest struct {
	Title          models.LocalizedText  `json:"title" binding:"required"`
	Content        models.LocalizedText  `json:"content" binding:"required"`
	Category       string                `json:"category" binding:"required"`
	Tags           models.StringList     `json:"tags"`
	Attachments    models.AttachmentList `json:"attachments"`
	IsSticky       bool                  `json:"isSticky"`
	IsAnnouncement bool                  `json:"isAnnouncement"`
	Status         string                `json:"status"`
}

func (r *postRequest) normalize() (string, bool) {
	r.Title = utils.SanitizeLocalized(r.Title)
	r.Content = utils.SanitizeLocalized(r.Content)
	if r.Title.IsEmpty() {
		return "title cannot be empty", false
	}
	if r.Content.IsEmpty() {
		return "content cannot be empty", false
	}
	if !models.ValidCategory(r.Category) {
		return "invalid category", false
	}
	if r.Status == "" {
		r.Status = models.StatusPublished
	}
	if !models.ValidStatus(r.Status) {
		return "invalid status", false
	}
	return "", true
}

// ListPosts returns published posts split into a capped sticky set and a
// paginated regular set, both projected to the request locale.
func (f *ForumController) ListPosts(ctx *gin.Context) {
	q := ParseListQuery(ctx)

	// Cache filter/page listings; search terms would explode the key space
	if q.Search == "" {
		if b, ok := utils.CacheGetBytes(q.CacheKey()); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	var sticky []models.Post
	err := q.applyFilters(f.db.Model(&models.Post{})).
		Where("is_sticky = ?", true).
		Order("created_at DESC").
		Limit(stickyLimit).
		Preload("Author").
		Find(&sticky).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list sticky posts")
		return
	}

	regularQuery := q.applyFilters(f.db.Model(&models.Post{})).Where("is_sticky = ?", false)

	var total int64
	if err := regularQuery.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to count posts")
		return
	}

	var regular []models.Post
	err = regularQuery.
		Order(q.OrderClause()).
		Offset(q.Offset()).
		Limit(q.Limit).
		Preload("Author").
		Find(&regular).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list posts")
		return
	}

	if err := loadPostLikes(f.db, sticky); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load likes")
		return
	}
	if err := loadPostLikes(f.db, regular); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load likes")
		return
	}

	payload := gin.H{
		"stickyPosts": newPostViews(sticky, q.Lang),
		"posts":       newPostViews(regular, q.Lang),
		"pagination": gin.H{
			"total":      total,
			"page":       q.Page,
			"limit":      q.Limit,
			"totalPages": int((total + int64(q.Limit) - 1) / int64(q.Limit)),
		},
	}
	if q.Search == "" {
		utils.CacheSetJSON(q.CacheKey(), utils.JSONResponse{Success: true, Data: payload}, time.Hour)
	}
	utils.Success(ctx, payload)
}

// GetPost returns a single post with its author, top-level comments and one
// reply level, all projected to the request locale. Every call increments the
// view counter by one.
func (f *ForumController) GetPost(ctx *gin.Context) {
	postID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	lang := ParseLang(ctx)

	// Atomic increment; a no-op when the post does not exist
	if err := f.db.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to record view")
		return
	}

	var post models.Post
	if err := f.db.Preload("Author").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "Post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}

	var topLevel []models.Comment
	err := f.db.Where("post_id = ? AND parent_comment_id IS NULL", post.ID).
		Order("created_at ASC").
		Preload("Author").
		Find(&topLevel).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comments")
		return
	}

	if len(topLevel) > 0 {
		ids := make([]uint, 0, len(topLevel))
		for _, c := range topLevel {
			ids = append(ids, c.ID)
		}
		var replies []models.Comment
		err = f.db.Where("parent_comment_id IN ?", ids).
			Order("created_at ASC").
			Preload("Author").
			Find(&replies).Error
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "failed to load replies")
			return
		}
		topLevel = attachReplies(topLevel, replies)
	}

	likedPosts := []models.Post{post}
	if err := loadPostLikes(f.db, likedPosts); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load likes")
		return
	}
	post = likedPosts[0]

	if err := loadCommentLikes(f.db, topLevel); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load likes")
		return
	}

	view := newPostView(post, lang)
	view.Comments = newCommentViews(topLevel, lang)
	utils.Success(ctx, view)
}

// CreatePost allows authenticated users to create new posts.
func (f *ForumController) CreatePost(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if msg, ok := req.normalize(); !ok {
		utils.Error(ctx, http.StatusBadRequest, msg)
		return
	}

	userID, _, ok := actingUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	post := models.Post{
		AuthorID:       userID,
		Title:          req.Title,
		Content:        req.Content,
		Category:       req.Category,
		Tags:           req.Tags,
		Attachments:    req.Attachments,
		IsSticky:       req.IsSticky,
		IsAnnouncement: req.IsAnnouncement,
		Status:         req.Status,
	}
	if err := f.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create post")
		return
	}
	if err := f.db.Preload("Author").First(&post, post.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}
	post.Likes = []uint{}

	utils.InvalidateByPrefix("cache:forum:posts:")
	utils.Created(ctx, post)
}

// UpdatePost replaces the mutable fields wholesale. Only the author or an
// admin may update; omitted locales on the title/content maps are dropped.
func (f *ForumController) UpdatePost(ctx *gin.Context) {
	postID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if msg, ok := req.normalize(); !ok {
		utils.Error(ctx, http.StatusBadRequest, msg)
		return
	}

	var post models.Post
	if err := f.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "Post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}

	userID, role, ok := actingUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !models.CanModerate(userID, role, post.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, "Not authorized to update this post")
		return
	}

	// Column-scoped update so a concurrent view increment is never written
	// back from the stale struct
	updates := map[string]interface{}{
		"title":           req.Title,
		"content":         req.Content,
		"category":        req.Category,
		"tags":            req.Tags,
		"attachments":     req.Attachments,
		"is_sticky":       req.IsSticky,
		"is_announcement": req.IsAnnouncement,
		"status":          req.Status,
	}
	if err := f.db.Model(&post).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update post")
		return
	}
	if err := f.db.Preload("Author").First(&post, post.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}
	likedPosts := []models.Post{post}
	if err := loadPostLikes(f.db, likedPosts); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load likes")
		return
	}
	post = likedPosts[0]

	utils.InvalidateByPrefix("cache:forum:posts:")
	utils.Success(ctx, post)
}

// DeletePost removes a post together with every comment on it (nested replies
// included, they all carry the post id) and all like memberships.
func (f *ForumController) DeletePost(ctx *gin.Context) {
	postID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var post models.Post
	if err := f.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "Post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}

	userID, role, ok := actingUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !models.CanModerate(userID, role, post.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, "Not authorized to delete this post")
		return
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", post.ID)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix("cache:forum:posts:")
	utils.Message(ctx, "Post deleted successfully")
}

// TogglePostLike flips the acting user's membership in the post's likes set.
// The toggle is a keyed delete-else-insert, never a read-modify-write.
func (f *ForumController) TogglePostLike(ctx *gin.Context) {
	postID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var post models.Post
	if err := f.db.First(&post, postID).Error; err != nil {
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

	res := f.db.Where("post_id = ? AND user_id = ?", post.ID, userID).Delete(&models.PostLike{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to toggle like")
		return
	}
	if res.RowsAffected > 0 {
		utils.InvalidateByPrefix("cache:forum:posts:")
		utils.Message(ctx, "Post unliked successfully")
		return
	}

	if err := f.db.Create(&models.PostLike{PostID: post.ID, UserID: userID}).Error; err != nil {
		// A concurrent toggle by the same user already inserted the row
		if !isDuplicateKey(err) {
			utils.Error(ctx, http.StatusInternalServerError, "failed to toggle like")
			return
		}
	}
	utils.InvalidateByPrefix("cache:forum:posts:")
	utils.Message(ctx, "Post liked successfully")
}

// UploadAttachment stores a multipart file under static/uploads and records
// it for timed cleanup until a post references it.
func (f *ForumController) UploadAttachment(ctx *gin.Context) {
	if _, _, ok := actingUser(ctx); !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	const maxSize = 50 * 1024 * 1024
	if header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, "file size exceeds 50MB")
		return
	}

	now := time.Now()
	baseDir := filepath.Join(".", "static", "uploads", now.Format("2006"), now.Format("01"), now.Format("02"))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create upload directory")
		return
	}

	safeName := uuid.NewString() + filepath.Ext(filepath.Base(header.Filename))
	dstPath := filepath.Join(baseDir, safeName)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to save file")
		return
	}
	defer out.Close()

	written, err := io.Copy(out, &io.LimitedReader{R: file, N: maxSize + 1})
	if err != nil || written > maxSize {
		_ = os.Remove(dstPath)
		if written > maxSize {
			utils.Error(ctx, http.StatusBadRequest, "file size exceeds 50MB")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, "failed to write file")
		}
		return
	}

	relURL := fmt.Sprintf("/static/uploads/%s/%s/%s/%s", now.Format("2006"), now.Format("01"), now.Format("02"), safeName)

	ttl := time.Duration(config.Get().UploadsSelfDestructMinutes) * time.Minute
	absPath, _ := filepath.Abs(dstPath)
	record := models.UploadedFile{FilePath: absPath, URL: relURL, ExpireAt: now.Add(ttl)}
	if err := f.db.Create(&record).Error; err != nil {
		utils.Sugar.Warnf("failed to record upload for cleanup: %v", err)
	}

	utils.Success(ctx, gin.H{
		"fileName": header.Filename,
		"fileUrl":  relURL,
		"fileType": header.Header.Get("Content-Type"),
	})
}

// parseID reads a numeric path parameter, replying 404 when it is not a
// well-formed id (no document can match it).
func parseID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusNotFound, "resource not found")
		return 0, false
	}
	return uint(id), true
}

// actingUser returns the authenticated user's id and role injected by the
// auth middleware.
func actingUser(ctx *gin.Context) (uint, string, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, "", false
	}
	userID, ok := value.(uint)
	if !ok {
		return 0, "", false
	}
	role, _ := ctx.Get(middleware.ContextUserRoleKey)
	roleStr, _ := role.(string)
	return userID, roleStr, true
}

// isDuplicateKey reports whether err is a unique constraint violation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
