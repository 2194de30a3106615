package models

import "time"

// Post represents an image post with a caption. Likes is the ordered list
// of user ids that liked the post; the symmetric bookkeeping lives on the
// liking user's record.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Image     string    `gorm:"size:512;not null" json:"post_image"`
	Likes     IDList    `gorm:"type:text" json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Comments  []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// PostView is the response shape for a post: author and comment authors
// reduced to display-safe summaries.
type PostView struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	Image     string        `json:"post_image"`
	Likes     IDList        `json:"likes"`
	Author    UserSummary   `json:"author"`
	Comments  []CommentView `json:"comments"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// View assembles the projection of the post. authors maps user ids to
// loaded user records; comment authors missing from the map are rendered
// with a bare id.
func (p Post) View(author User, authors map[uint]User) PostView {
	if p.Likes == nil {
		p.Likes = IDList{}
	}
	comments := make([]CommentView, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, c.View(authors[c.UserID]))
	}
	return PostView{
		ID:        p.ID,
		Title:     p.Title,
		Image:     p.Image,
		Likes:     p.Likes,
		Author:    author.Summary(),
		Comments:  comments,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
