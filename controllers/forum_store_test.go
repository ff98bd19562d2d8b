package controllers

import (
	"errors"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/goshala/goshala/middleware"
	"github.com/goshala/goshala/models"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newStoreDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Single-statement writes must not hold the lone connection inside an
	// implicit transaction, or an interleaved raw Exec would block
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	// One connection so :memory: is shared across the pool
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
		&models.CommentLike{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Name: "Asha", Email: "asha@example.com", Role: models.RoleConsumer}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint) models.Post {
	t.Helper()
	post := models.Post{
		AuthorID: authorID,
		Title:    models.LocalizedText{"en": "Gir cows"},
		Content:  models.LocalizedText{"en": "Notes on the herd"},
		Category: models.CategoryCowCare,
		Status:   models.StatusPublished,
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func seedComment(t *testing.T, db *gorm.DB, postID, authorID uint, parentID *uint) models.Comment {
	t.Helper()
	comment := models.Comment{
		PostID:          postID,
		AuthorID:        authorID,
		ParentCommentID: parentID,
		Content:         models.LocalizedText{"en": "a comment"},
	}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return comment
}

// authedContext builds a gin context carrying the identity the auth guard
// would inject, with an optional JSON body and an :id path parameter.
func authedContext(t *testing.T, method, body string, id uint, userID uint, role string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	if body != "" {
		ctx.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
		ctx.Request.Header.Set("Content-Type", "application/json")
	} else {
		ctx.Request = httptest.NewRequest(method, "/", nil)
	}
	ctx.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(id))}}
	ctx.Set(middleware.ContextUserIDKey, userID)
	ctx.Set(middleware.ContextUserNameKey, "Asha")
	ctx.Set(middleware.ContextUserRoleKey, role)
	return ctx, w
}

func TestTogglePostLikeTwiceRestoresState(t *testing.T) {
	db := newStoreDB(t)
	user := seedUser(t, db)
	post := seedPost(t, db, user.ID)
	fc := NewForumController(db)

	ctx, w := authedContext(t, "POST", "", post.ID, user.ID, user.Role)
	fc.TogglePostLike(ctx)
	if !strings.Contains(w.Body.String(), "Post liked successfully") {
		t.Errorf("first toggle body = %s", w.Body.String())
	}
	var count int64
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 1 {
		t.Fatalf("likes after first toggle = %d, want 1", count)
	}

	ctx, w = authedContext(t, "POST", "", post.ID, user.ID, user.Role)
	fc.TogglePostLike(ctx)
	if !strings.Contains(w.Body.String(), "Post unliked successfully") {
		t.Errorf("second toggle body = %s", w.Body.String())
	}
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 0 {
		t.Errorf("likes after second toggle = %d, want 0", count)
	}
}

func TestToggleCommentLikeTwiceRestoresState(t *testing.T) {
	db := newStoreDB(t)
	user := seedUser(t, db)
	post := seedPost(t, db, user.ID)
	comment := seedComment(t, db, post.ID, user.ID, nil)
	cc := NewCommentController(db)

	ctx, _ := authedContext(t, "POST", "", comment.ID, user.ID, user.Role)
	cc.ToggleCommentLike(ctx)
	ctx, w := authedContext(t, "POST", "", comment.ID, user.ID, user.Role)
	cc.ToggleCommentLike(ctx)

	if !strings.Contains(w.Body.String(), "Comment unliked successfully") {
		t.Errorf("second toggle body = %s", w.Body.String())
	}
	var count int64
	db.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&count)
	if count != 0 {
		t.Errorf("likes after double toggle = %d, want 0", count)
	}
}

func TestGetPostIncrementsViews(t *testing.T) {
	db := newStoreDB(t)
	user := seedUser(t, db)
	post := seedPost(t, db, user.ID)
	fc := NewForumController(db)

	for i := 0; i < 2; i++ {
		ctx, w := authedContext(t, "GET", "", post.ID, user.ID, user.Role)
		fc.GetPost(ctx)
		if w.Code != 200 {
			t.Fatalf("GetPost status = %d: %s", w.Code, w.Body.String())
		}
	}

	var got models.Post
	if err := db.First(&got, post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if got.Views != 2 {
		t.Errorf("views = %d, want 2", got.Views)
	}
}

func TestUpdatePostKeepsConcurrentViews(t *testing.T) {
	db := newStoreDB(t)
	user := seedUser(t, db)
	post := seedPost(t, db, user.ID)
	fc := NewForumController(db)

	// A view lands between the editor's read and their write: run the
	// atomic increment right before the handler's UPDATE executes
	raced := false
	err := db.Callback().Update().Before("gorm:update").Register("race_view_increment", func(tx *gorm.DB) {
		if raced {
			return
		}
		raced = true
		db.Exec("UPDATE posts SET views = views + 1 WHERE id = ?", post.ID)
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	body := `{"title":{"en":"Updated"},"content":{"en":"Updated body"},"category":"cow_care","status":"published"}`
	ctx, w := authedContext(t, "PUT", body, post.ID, user.ID, user.Role)
	fc.UpdatePost(ctx)
	if !raced {
		t.Fatal("view increment never interleaved with the update")
	}
	if w.Code != 200 {
		t.Fatalf("UpdatePost status = %d: %s", w.Code, w.Body.String())
	}

	var got models.Post
	if err := db.First(&got, post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if got.Views != 1 {
		t.Errorf("views = %d, want 1 (update must not write back a stale counter)", got.Views)
	}
	if got.Title.Resolve("en") != "Updated" {
		t.Errorf("title = %q, want Updated", got.Title.Resolve("en"))
	}
	if !strings.Contains(w.Body.String(), `"likes":[]`) {
		t.Errorf("update response should carry an empty likes array: %s", w.Body.String())
	}
}

func TestDeletePostRemovesCommentsAndLikes(t *testing.T) {
	db := newStoreDB(t)
	user := seedUser(t, db)
	post := seedPost(t, db, user.ID)
	top := seedComment(t, db, post.ID, user.ID, nil)
	reply := seedComment(t, db, post.ID, user.ID, &top.ID)
	seedComment(t, db, post.ID, user.ID, &reply.ID)
	db.Create(&models.PostLike{PostID: post.ID, UserID: user.ID})
	db.Create(&models.CommentLike{CommentID: top.ID, UserID: user.ID})
	db.Create(&models.CommentLike{CommentID: reply.ID, UserID: user.ID})
	fc := NewForumController(db)

	ctx, w := authedContext(t, "DELETE", "", post.ID, user.ID, user.Role)
	fc.DeletePost(ctx)
	if !strings.Contains(w.Body.String(), "Post deleted successfully") {
		t.Fatalf("delete body = %s", w.Body.String())
	}

	var count int64
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 0 {
		t.Errorf("%d comments survived post delete, want 0", count)
	}
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 0 {
		t.Errorf("%d post likes survived, want 0", count)
	}
	db.Model(&models.CommentLike{}).Count(&count)
	if count != 0 {
		t.Errorf("%d comment likes survived, want 0", count)
	}
	if err := db.First(&models.Post{}, post.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("post lookup after delete = %v, want record not found", err)
	}
}

func TestDeleteCommentCascadesOneLevel(t *testing.T) {
	db := newStoreDB(t)
	user := seedUser(t, db)
	post := seedPost(t, db, user.ID)
	top := seedComment(t, db, post.ID, user.ID, nil)
	child := seedComment(t, db, post.ID, user.ID, &top.ID)
	grandchild := seedComment(t, db, post.ID, user.ID, &child.ID)
	db.Create(&models.CommentLike{CommentID: child.ID, UserID: user.ID})
	db.Create(&models.CommentLike{CommentID: grandchild.ID, UserID: user.ID})
	cc := NewCommentController(db)

	ctx, w := authedContext(t, "DELETE", "", top.ID, user.ID, user.Role)
	cc.DeleteComment(ctx)
	if !strings.Contains(w.Body.String(), "Comment deleted successfully") {
		t.Fatalf("delete body = %s", w.Body.String())
	}

	if err := db.First(&models.Comment{}, top.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("top comment lookup = %v, want record not found", err)
	}
	if err := db.First(&models.Comment{}, child.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("child comment lookup = %v, want record not found", err)
	}
	// Cascade stops after one level: the grandchild stays, now orphaned
	if err := db.First(&models.Comment{}, grandchild.ID).Error; err != nil {
		t.Errorf("grandchild should survive: %v", err)
	}

	var count int64
	db.Model(&models.CommentLike{}).Where("comment_id = ?", child.ID).Count(&count)
	if count != 0 {
		t.Errorf("%d child likes survived, want 0", count)
	}
	db.Model(&models.CommentLike{}).Where("comment_id = ?", grandchild.ID).Count(&count)
	if count != 1 {
		t.Errorf("grandchild likes = %d, want 1", count)
	}
}
