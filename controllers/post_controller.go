package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"snapnet/middleware"
	"snapnet/models"
	"snapnet/utils"
)

// PostController manages posts, likes, and comments.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// loadAuthors fetches the users behind the given ids into a map. Missing
// users are simply absent; projections degrade to a bare id.
func (p *PostController) loadAuthors(ids []uint) map[uint]models.User {
	authors := map[uint]models.User{}
	if len(ids) == 0 {
		return authors
	}
	var users []models.User
	if err := p.db.Find(&users, ids).Error; err != nil {
		return authors
	}
	for _, u := range users {
		authors[u.ID] = u
	}
	return authors
}

// CreatePost creates an image post with a caption. Title and image are
// both required (multipart form).
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40104, "unauthorized")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(ctx.PostForm("title")))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40020, "title and image are required")
		return
	}

	header, err := ctx.FormFile("postImage")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "title and image are required")
		return
	}

	file, err := utils.SaveImage(p.db, header, userID)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid post image")
		return
	}

	post := models.Post{
		UserID: userID,
		Title:  title,
		Image:  file.URL,
		Likes:  models.IDList{},
	}

	var author models.User
	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&author, userID).Error; err != nil {
			return err
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		author.Posts = author.Posts.Add(post.ID)
		if err := tx.Save(&author).Error; err != nil {
			return err
		}
		return utils.ClaimUpload(tx, file.ID)
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.InvalidateByPrefix("cache:users:")
	utils.Created(ctx, gin.H{"post": post.View(author, nil)})
}

// UpdatePost lets the author change the caption and optionally replace the
// image.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40104, "unauthorized")
		return
	}

	var post models.Post
	if err := p.db.First(&post, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
		return
	}
	if post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "you can only update your own posts")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(ctx.PostForm("title")))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40022, "title cannot be empty")
		return
	}
	post.Title = title

	oldImage := ""
	if header, err := ctx.FormFile("postImage"); err == nil {
		file, err := utils.SaveImage(p.db, header, userID)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40021, "invalid post image")
			return
		}
		oldImage = post.Image
		post.Image = file.URL
		defer func() { _ = utils.ClaimUpload(p.db, file.ID) }()
	}

	if err := p.db.Save(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to update post")
		return
	}
	if oldImage != "" {
		utils.RemoveUploadByURL(p.db, oldImage)
	}

	utils.InvalidateByPrefix("cache:posts:")
	var author models.User
	_ = p.db.First(&author, post.UserID).Error
	utils.Success(ctx, gin.H{"post": post.View(author, nil)})
}

// DeletePost removes a post, its comments, and its stored image.
func (p *PostController) DeletePost(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40104, "unauthorized")
		return
	}

	var post models.Post
	if err := p.db.First(&post, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
		return
	}
	if post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40302, "you can only delete your own posts")
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		var owner models.User
		if err := tx.First(&owner, post.UserID).Error; err == nil {
			owner.Posts = owner.Posts.Remove(post.ID)
			if err := tx.Save(&owner).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to delete post")
		return
	}

	utils.RemoveUploadByURL(p.db, post.Image)
	utils.InvalidateByPrefix("cache:posts:")
	utils.InvalidateByPrefix("cache:users:")
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// CreateComment appends a comment to a post. Comments are append-only.
func (p *PostController) CreateComment(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40104, "unauthorized")
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "comment text is required")
		return
	}

	text := utils.Sanitize(strings.TrimSpace(req.Text))
	if text == "" {
		utils.Error(ctx, http.StatusBadRequest, 40023, "comment text is required")
		return
	}

	var post models.Post
	if err := p.db.First(&post, ctx.Param("postId")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
		return
	}

	comment := models.Comment{
		PostID:    post.ID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := p.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to create comment")
		return
	}

	var author models.User
	_ = p.db.First(&author, userID).Error

	utils.InvalidateByPrefix("cache:posts:")
	utils.Created(ctx, gin.H{"comment": comment.View(author)})
}

// ToggleLike flips the caller's membership in the post's like set. The
// toggle is its own inverse: exactly one presence flip per call.
func (p *PostController) ToggleLike(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40104, "unauthorized")
		return
	}

	var liked bool
	var likes models.IDList
	err := p.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, ctx.Param("id")).Error; err != nil {
			return err
		}
		post.Likes, liked = post.Likes.Toggle(userID)
		likes = post.Likes
		return tx.Save(&post).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to update like state")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.Success(ctx, gin.H{"liked": liked, "likes": likes})
}

// ListPosts returns every post, newest first, with authors and comment
// authors projected to display-safe summaries.
func (p *PostController) ListPosts(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:posts:all"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var posts []models.Post
	if err := p.db.Preload("Comments").Order("created_at DESC").Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to list posts")
		return
	}

	var authorIDs []uint
	for _, post := range posts {
		authorIDs = append(authorIDs, post.UserID)
		for _, c := range post.Comments {
			authorIDs = append(authorIDs, c.UserID)
		}
	}
	authors := p.loadAuthors(utils.UniqueUint(authorIDs))

	items := make([]models.PostView, 0, len(posts))
	for _, post := range posts {
		items = append(items, post.View(authors[post.UserID], authors))
	}

	payload := gin.H{"count": len(items), "items": items}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:posts:all", wrapper, time.Hour)
	utils.Success(ctx, payload)
}
