package models

import (
	"time"

	"gorm.io/gorm"
)

// Relationship status values accepted on profile updates.
const (
	RelationshipSingle         = "Single"
	RelationshipInRelation     = "In a relationship"
	RelationshipMarried        = "Married"
	RelationshipItsComplicated = "It's complicated"
)

// Name, password, and bio bounds enforced at registration and profile update.
const (
	NameMinLen     = 3
	NameMaxLen     = 15
	PasswordMinLen = 8
	PasswordMaxLen = 16
	BioMinLen      = 10
	BioMaxLen      = 100
)

// User represents a registered account. Passwords are stored as bcrypt
// hashes only. The list columns mirror the record shapes of the social
// graph: Posts and LikedPosts are maintained on the user's own record,
// Following and Followers form the symmetric follow relation.
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	FirstName          string    `gorm:"size:64;not null" json:"first_name"`
	LastName           string    `gorm:"size:64;not null" json:"last_name"`
	Email              string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash       string    `gorm:"size:255;not null" json:"-"`
	ProfileImage       string    `gorm:"size:512" json:"profile_image"`
	CoverImage         string    `gorm:"size:512" json:"cover_image"`
	Bio                string    `gorm:"size:255" json:"bio"`
	WorkAt             string    `gorm:"size:255" json:"work_at"`
	Address            string    `gorm:"size:255" json:"address"`
	RelationshipStatus string    `gorm:"size:32" json:"relationship_status"`
	Posts              IDList    `gorm:"type:text" json:"posts"`
	LikedPosts         IDList    `gorm:"type:text" json:"liked_posts"`
	Following          IDList    `gorm:"type:text" json:"following"`
	Followers          IDList    `gorm:"type:text" json:"followers"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// BeforeCreate hook ensures timestamps and empty lists are set even when
// the record is built by hand.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Posts == nil {
		u.Posts = IDList{}
	}
	if u.LikedPosts == nil {
		u.LikedPosts = IDList{}
	}
	if u.Following == nil {
		u.Following = IDList{}
	}
	if u.Followers == nil {
		u.Followers = IDList{}
	}
	return nil
}

// BeforeUpdate refreshes the UpdatedAt timestamp.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// ValidRelationshipStatus reports whether s is one of the accepted values.
func ValidRelationshipStatus(s string) bool {
	switch s {
	case RelationshipSingle, RelationshipInRelation, RelationshipMarried, RelationshipItsComplicated:
		return true
	}
	return false
}

// PublicUser is the external representation of an account. Responses are
// built from this type so the password hash can never leak through a
// forgotten field deletion.
type PublicUser struct {
	ID                 uint      `json:"id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email"`
	ProfileImage       string    `json:"profile_image"`
	CoverImage         string    `json:"cover_image"`
	Bio                string    `json:"bio"`
	WorkAt             string    `json:"work_at"`
	Address            string    `json:"address"`
	RelationshipStatus string    `json:"relationship_status"`
	Posts              IDList    `json:"posts"`
	LikedPosts         IDList    `json:"liked_posts"`
	Following          IDList    `json:"following"`
	Followers          IDList    `json:"followers"`
	CreatedAt          time.Time `json:"created_at"`
}

// Public projects the user onto its external representation.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:                 u.ID,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Email:              u.Email,
		ProfileImage:       u.ProfileImage,
		CoverImage:         u.CoverImage,
		Bio:                u.Bio,
		WorkAt:             u.WorkAt,
		Address:            u.Address,
		RelationshipStatus: u.RelationshipStatus,
		Posts:              u.Posts,
		LikedPosts:         u.LikedPosts,
		Following:          u.Following,
		Followers:          u.Followers,
		CreatedAt:          u.CreatedAt,
	}
}

// UserSummary is the display-safe subset embedded in post and comment
// projections.
type UserSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Summary reduces the user to the subset shown next to posts and comments.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
