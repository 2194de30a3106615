package models

import "time"

// Comment is an append-only reply attached to a post. Comments are never
// individually updated or deleted.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is the response shape for a comment.
type CommentView struct {
	ID        uint        `json:"id"`
	Text      string      `json:"text"`
	Author    UserSummary `json:"author"`
	CreatedAt time.Time   `json:"created_at"`
}

// View projects the comment with its author's display-safe subset. When
// the author record is unavailable only the id is carried over.
func (c Comment) View(author User) CommentView {
	summary := author.Summary()
	if summary.ID == 0 {
		summary.ID = c.UserID
	}
	return CommentView{
		ID:        c.ID,
		Text:      c.Text,
		Author:    summary,
		CreatedAt: c.CreatedAt,
	}
}
