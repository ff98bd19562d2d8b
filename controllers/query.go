package controllers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/goshala/goshala/models"
)

// stickyLimit caps how many pinned posts a listing returns.
const stickyLimit = 5

// sortColumns whitelists the API sort names and maps them to columns.
// Anything else falls back to creation time.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"views":     "views",
}

var langPattern = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z0-9]{2,8})?$`)

// ListQuery captures the parsed listing parameters of GET /forum/posts:
// pagination, sort, filters and the response locale.
type ListQuery struct {
	Page     int
	Limit    int
	SortCol  string
	Desc     bool
	Category string
	Search   string
	Tag      string
	Lang     string
}

// ParseListQuery reads pagination, sort, filter and locale parameters from
// the request, normalizing out-of-range or unknown values instead of erroring.
func ParseListQuery(ctx *gin.Context) ListQuery {
	q := ListQuery{
		Page:     1,
		Limit:    10,
		SortCol:  "created_at",
		Desc:     true,
		Category: strings.TrimSpace(ctx.Query("category")),
		Search:   strings.TrimSpace(ctx.Query("search")),
		Tag:      strings.TrimSpace(ctx.Query("tag")),
		Lang:     ParseLang(ctx),
	}

	if p, err := strconv.Atoi(ctx.Query("page")); err == nil && p > 0 {
		q.Page = p
	}
	if l, err := strconv.Atoi(ctx.Query("limit")); err == nil && l > 0 && l <= 100 {
		q.Limit = l
	}
	if col, ok := sortColumns[ctx.Query("sort")]; ok {
		q.SortCol = col
	}
	if strings.EqualFold(ctx.Query("order"), "asc") {
		q.Desc = false
	}
	return q
}

// ParseLang returns the validated lang query parameter, defaulting to the
// default locale. The value is interpolated into JSON path expressions, so
// anything not matching a locale code shape is rejected.
func ParseLang(ctx *gin.Context) string {
	lang := strings.TrimSpace(ctx.Query("lang"))
	if lang == "" || !langPattern.MatchString(lang) {
		return models.DefaultLocale
	}
	return lang
}

// OrderClause renders the ORDER BY fragment for the regular (non-sticky) set.
func (q ListQuery) OrderClause() string {
	if q.Desc {
		return q.SortCol + " DESC"
	}
	return q.SortCol + " ASC"
}

// Offset returns the row offset for the requested page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// CacheKey identifies this listing in the response cache. Search listings are
// never cached, so the search term is not part of the key.
func (q ListQuery) CacheKey() string {
	return fmt.Sprintf("cache:forum:posts:cat=%s:tag=%s:sort=%s:desc=%t:page=%d:limit=%d:lang=%s",
		q.Category, q.Tag, q.SortCol, q.Desc, q.Page, q.Limit, q.Lang)
}

// TitleSearchExpr builds the SQL fragment matching the localized title for
// the request locale against a substring, case-insensitively. JSON_EXTRACT
// yields utf8mb4_bin, so both sides are lowered explicitly. The locale is
// validated by ParseLang before it reaches the JSON path.
func TitleSearchExpr(lang string) string {
	return fmt.Sprintf(`LOWER(JSON_UNQUOTE(JSON_EXTRACT(title, '$."%s"'))) LIKE LOWER(?)`, lang)
}

// applyFilters narrows db to published posts matching the category, tag and
// search filters. Sticky partitioning is applied by the caller.
func (q ListQuery) applyFilters(db *gorm.DB) *gorm.DB {
	db = db.Where("status = ?", models.StatusPublished)
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if q.Tag != "" {
		db = db.Where("JSON_CONTAINS(tags, JSON_QUOTE(?))", q.Tag)
	}
	if q.Search != "" {
		db = db.Where(TitleSearchExpr(q.Lang), "%"+q.Search+"%")
	}
	return db
}
