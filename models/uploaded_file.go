package models

import "time"

// UploadedFile records every stored image so orphans can be reclaimed.
// A file created for a post or profile update starts unclaimed and is
// marked claimed once the owning record commits; unclaimed rows past their
// grace period are removed by the background cleaner.
type UploadedFile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	FilePath  string    `gorm:"size:1024;not null" json:"file_path"`
	URL       string    `gorm:"size:1024;not null" json:"url"`
	Claimed   bool      `gorm:"index;default:false" json:"claimed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
