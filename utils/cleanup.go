package utils

import (
	"os"
	"time"

	"gorm.io/gorm"

	"snapnet/config"
	"snapnet/models"
)

// StartUploadCleaner launches a background goroutine that periodically
// deletes uploaded files which were never claimed by a post or profile
// update, compensating for crashes between the file write and the record
// commit. Best-effort; failures are logged.
func StartUploadCleaner(db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			if db == nil {
				continue
			}
			ttl := time.Duration(config.Get().UploadOrphanTTLMin) * time.Minute
			cutoff := time.Now().Add(-ttl)

			var items []models.UploadedFile
			if err := db.Where("claimed = ? AND created_at <= ?", false, cutoff).Limit(100).Find(&items).Error; err != nil {
				if Sugar != nil {
					Sugar.Warnf("upload cleaner query failed: %v", err)
				}
				continue
			}
			for _, it := range items {
				if it.FilePath != "" {
					_ = os.Remove(it.FilePath)
				}
				// Remove row regardless of file deletion outcome
				if err := db.Delete(&models.UploadedFile{}, it.ID).Error; err != nil && Sugar != nil {
					Sugar.Warnf("upload cleaner delete row failed: %v", err)
				}
			}
		}
	}()
}
