package models

import "testing"

func TestValidCategory(t *testing.T) {
	for _, c := range []string{
		CategoryGeneral, CategoryOrganicFarming, CategoryCowCare,
		CategoryProductInfo, CategoryMarketTrends, CategoryBiodiversity,
		CategoryTechnical,
	} {
		if !ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = false", c)
		}
	}
	for _, c := range []string{"", "news", "General", "organic farming"} {
		if ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = true", c)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPublished, StatusDraft, StatusArchived} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	if ValidStatus("deleted") || ValidStatus("") {
		t.Error("unknown status accepted")
	}
}

func TestCategoriesMatchEnum(t *testing.T) {
	cats := Categories()
	if len(cats) != 7 {
		t.Fatalf("got %d categories, want 7", len(cats))
	}
	for _, c := range cats {
		if !ValidCategory(c.ID) {
			t.Errorf("category %q not in enum", c.ID)
		}
		if c.NameKey == "" {
			t.Errorf("category %q missing nameKey", c.ID)
		}
	}
}
