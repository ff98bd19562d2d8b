package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestContext(t *testing.T, url string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("GET", url, nil)
	return ctx
}

func TestParseListQueryDefaults(t *testing.T) {
	q := ParseListQuery(newTestContext(t, "/forum/posts"))
	if q.Page != 1 || q.Limit != 10 {
		t.Errorf("defaults = page %d limit %d, want 1/10", q.Page, q.Limit)
	}
	if q.SortCol != "created_at" || !q.Desc {
		t.Errorf("default sort = %s desc=%t, want created_at desc", q.SortCol, q.Desc)
	}
	if q.Lang != "en" {
		t.Errorf("default lang = %q, want en", q.Lang)
	}
}

func TestParseListQuery(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want ListQuery
	}{
		{
			"explicit values",
			"/forum/posts?page=3&limit=25&sort=views&order=asc&category=cow_care&tag=ghee&lang=hi",
			ListQuery{Page: 3, Limit: 25, SortCol: "views", Desc: false, Category: "cow_care", Tag: "ghee", Lang: "hi"},
		},
		{
			"unknown sort falls back",
			"/forum/posts?sort=likes&order=desc",
			ListQuery{Page: 1, Limit: 10, SortCol: "created_at", Desc: true, Lang: "en"},
		},
		{
			"invalid pagination normalized",
			"/forum/posts?page=-2&limit=0",
			ListQuery{Page: 1, Limit: 10, SortCol: "created_at", Desc: true, Lang: "en"},
		},
		{
			"limit capped",
			"/forum/posts?limit=500",
			ListQuery{Page: 1, Limit: 10, SortCol: "created_at", Desc: true, Lang: "en"},
		},
		{
			"bad lang rejected",
			"/forum/posts?lang=';DROP%20TABLE%20posts;--",
			ListQuery{Page: 1, Limit: 10, SortCol: "created_at", Desc: true, Lang: "en"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseListQuery(newTestContext(t, tc.url))
			got.Search = "" // not under test here
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseListQuerySearch(t *testing.T) {
	q := ParseListQuery(newTestContext(t, "/forum/posts?search=%20ghee%20"))
	if q.Search != "ghee" {
		t.Errorf("search = %q, want trimmed %q", q.Search, "ghee")
	}
}

func TestOrderClause(t *testing.T) {
	q := ListQuery{SortCol: "views", Desc: true}
	if got := q.OrderClause(); got != "views DESC" {
		t.Errorf("OrderClause() = %q", got)
	}
	q.Desc = false
	if got := q.OrderClause(); got != "views ASC" {
		t.Errorf("OrderClause() = %q", got)
	}
}

func TestOffset(t *testing.T) {
	q := ListQuery{Page: 4, Limit: 15}
	if got := q.Offset(); got != 45 {
		t.Errorf("Offset() = %d, want 45", got)
	}
}

func TestTitleSearchExpr(t *testing.T) {
	expr := TitleSearchExpr("hi")
	if !strings.Contains(expr, `'$."hi"'`) {
		t.Errorf("expr %q does not address the hi locale", expr)
	}
	if !strings.Contains(expr, "LIKE LOWER(?)") {
		t.Errorf("expr %q is not parameterized", expr)
	}
	// JSON_EXTRACT output carries a binary collation; without lowering both
	// sides, "hello" would not match a post titled "Hello".
	if !strings.Contains(expr, "LOWER(JSON_UNQUOTE(") {
		t.Errorf("expr %q does not case-fold the extracted title", expr)
	}
}

func TestCacheKeyDistinguishesListings(t *testing.T) {
	a := ListQuery{Page: 1, Limit: 10, SortCol: "created_at", Desc: true, Lang: "en"}
	b := a
	b.Page = 2
	if a.CacheKey() == b.CacheKey() {
		t.Error("different pages share a cache key")
	}
	c := a
	c.Lang = "hi"
	if a.CacheKey() == c.CacheKey() {
		t.Error("different locales share a cache key")
	}
}
