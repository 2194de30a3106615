package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"snapnet/config"
	"snapnet/models"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// SaveImage stores an uploaded image under the configured upload directory
// and records it in the uploaded_files ledger as unclaimed. The caller
// marks it claimed once the owning record commits; rows left unclaimed are
// reaped by the cleaner.
func SaveImage(db *gorm.DB, header *multipart.FileHeader, userID uint) (*models.UploadedFile, error) {
	cfg := config.Get()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return nil, fmt.Errorf("unsupported image type %q", ext)
	}

	maxSize := int64(cfg.UploadMaxMB) * 1024 * 1024
	if header.Size > maxSize {
		return nil, fmt.Errorf("file size exceeds %dMB", cfg.UploadMaxMB)
	}

	now := time.Now()
	baseDir := filepath.Join(cfg.UploadDir, now.Format("2006"), now.Format("01"))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	name := uuid.NewString() + ext
	dstPath := filepath.Join(baseDir, name)

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	defer dst.Close()

	// Size limit enforced again at copy time; the multipart header size is
	// client supplied.
	lr := &io.LimitedReader{R: src, N: maxSize + 1}
	written, err := io.Copy(dst, lr)
	if err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("write upload: %w", err)
	}
	if written > maxSize {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("file size exceeds %dMB", cfg.UploadMaxMB)
	}

	file := models.UploadedFile{
		UserID:   userID,
		FilePath: dstPath,
		URL:      "/" + filepath.ToSlash(dstPath),
	}
	if err := db.Create(&file).Error; err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("record upload: %w", err)
	}
	return &file, nil
}

// ClaimUpload marks a stored file as referenced by a committed record.
func ClaimUpload(db *gorm.DB, fileID uint) error {
	return db.Model(&models.UploadedFile{}).Where("id = ?", fileID).Update("claimed", true).Error
}

// RemoveUploadByURL deletes the file behind url and its ledger row. Used
// when the owning post or profile image is deleted.
func RemoveUploadByURL(db *gorm.DB, url string) {
	if url == "" {
		return
	}
	var file models.UploadedFile
	if err := db.Where("url = ?", url).First(&file).Error; err != nil {
		return
	}
	if file.FilePath != "" {
		_ = os.Remove(file.FilePath)
	}
	_ = db.Delete(&models.UploadedFile{}, file.ID).Error
}
