package utils

import (
	"os"
	"time"

	"github.com/goshala/goshala/config"
	"github.com/goshala/goshala/models"
)

// StartUploadCleaner launches a background goroutine that periodically deletes
// expired attachment uploads recorded in the database. Best-effort; failures
// are logged and retried on the next tick.
func StartUploadCleaner(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		for {
			time.Sleep(interval)
			db := config.DB()
			if db == nil {
				continue
			}
			if !config.Get().UploadsSelfDestructEnabled {
				continue
			}
			var items []models.UploadedFile
			if err := db.Where("expire_at <= ?", time.Now()).Limit(100).Find(&items).Error; err != nil {
				Sugar.Warnf("upload cleaner query failed: %v", err)
				continue
			}
			for _, it := range items {
				if it.FilePath != "" {
					_ = os.Remove(it.FilePath)
				}
				// Remove the row regardless of file deletion outcome
				if err := db.Delete(&models.UploadedFile{}, it.ID).Error; err != nil {
					Sugar.Warnf("upload cleaner delete row failed: %v", err)
				}
			}
		}
	}()
}
