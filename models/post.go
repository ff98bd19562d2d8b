package models

import "time"

// Post categories.
const (
	CategoryGeneral        = "general"
	CategoryOrganicFarming = "organic_farming"
	CategoryCowCare        = "cow_care"
	CategoryProductInfo    = "product_info"
	CategoryMarketTrends   = "market_trends"
	CategoryBiodiversity   = "biodiversity"
	CategoryTechnical      = "technical"
)

// Post publication states. Only published posts appear in public listings.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusArchived  = "archived"
)

// Post represents a forum post with multilingual title and content.
type Post struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	AuthorID       uint           `gorm:"index;not null" json:"author_id"`
	Title          LocalizedText  `gorm:"type:json;not null" json:"title"`
	Content        LocalizedText  `gorm:"type:json;not null" json:"content"`
	Category       string         `gorm:"size:32;index;not null" json:"category"`
	Tags           StringList     `gorm:"type:json" json:"tags"`
	Views          uint64         `gorm:"not null;default:0" json:"views"`
	Attachments    AttachmentList `gorm:"type:json" json:"attachments"`
	IsSticky       bool           `gorm:"index;default:false" json:"isSticky"`
	IsAnnouncement bool           `gorm:"default:false" json:"isAnnouncement"`
	Status         string         `gorm:"size:16;index;default:'published'" json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Author         User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`

	// Likes carries the ids of users who liked the post, loaded from the
	// post_likes rows. Not a column.
	Likes []uint `gorm:"-" json:"likes"`
}

// ValidCategory reports whether category belongs to the enumerated set.
func ValidCategory(category string) bool {
	switch category {
	case CategoryGeneral, CategoryOrganicFarming, CategoryCowCare,
		CategoryProductInfo, CategoryMarketTrends, CategoryBiodiversity,
		CategoryTechnical:
		return true
	}
	return false
}

// ValidStatus reports whether status is one of published, draft, archived.
func ValidStatus(status string) bool {
	switch status {
	case StatusPublished, StatusDraft, StatusArchived:
		return true
	}
	return false
}

// Category is a forum section exposed by GET /forum/categories. NameKey is
// the i18n resource key the client resolves to a display name.
type Category struct {
	ID      string `json:"id"`
	NameKey string `json:"nameKey"`
}

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{
		{ID: CategoryGeneral, NameKey: "forum.categories.general"},
		{ID: CategoryOrganicFarming, NameKey: "forum.categories.organicFarming"},
		{ID: CategoryCowCare, NameKey: "forum.categories.cowCare"},
		{ID: CategoryProductInfo, NameKey: "forum.categories.productInfo"},
		{ID: CategoryMarketTrends, NameKey: "forum.categories.marketTrends"},
		{ID: CategoryBiodiversity, NameKey: "forum.categories.biodiversity"},
		{ID: CategoryTechnical, NameKey: "forum.categories.technical"},
	}
}
