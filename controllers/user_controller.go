package controllers

import (
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"snapnet/config"
	"snapnet/middleware"
	"snapnet/models"
	"snapnet/utils"
)

// UserController handles accounts, sessions, and the social graph.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// setSessionCookie attaches a fresh session token to the response. The
// cookie lives exactly as long as the token.
func setSessionCookie(ctx *gin.Context, token string) {
	cfg := config.Get()
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookieName, token, int(utils.TokenTTL().Seconds()), "/", "", cfg.Production, true)
}

func clearSessionCookie(ctx *gin.Context) {
	cfg := config.Get()
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookieName, "", -1, "/", "", cfg.Production, true)
}

func validName(s string) bool {
	l := len([]rune(s))
	return l >= models.NameMinLen && l <= models.NameMaxLen
}

// Register handles account registration with bcrypt hashing. The raw
// password is hashed immediately and never stored or logged.
func (u *UserController) Register(ctx *gin.Context) {
	type request struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if !validName(req.FirstName) || !validName(req.LastName) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "first and last name must be 3-15 characters")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid email address")
		return
	}
	if l := len(req.Password); l < models.PasswordMinLen || l > models.PasswordMaxLen {
		utils.Error(ctx, http.StatusBadRequest, 40004, "password must be 8-16 characters")
		return
	}

	var existing models.User
	if err := u.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := u.db.Create(&user).Error; err != nil {
		// The unique index is the last line of defense against a
		// concurrent registration with the same email.
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "Duplicate") || strings.Contains(err.Error(), "UNIQUE") {
			utils.Error(ctx, http.StatusConflict, 40901, "email already registered")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create user")
		return
	}

	token, err := utils.GenerateToken(user.ID, utils.TokenTTL())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}

	setSessionCookie(ctx, token)
	utils.InvalidateByPrefix("cache:users:")
	utils.Created(ctx, gin.H{"user": user.Public()})
}

// Login verifies credentials and issues a fresh session cookie. Unknown
// email and wrong password are indistinguishable to the caller.
func (u *UserController) Login(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40005, "invalid request payload")
		return
	}

	var user models.User
	if err := u.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid email or password")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid email or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, utils.TokenTTL())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	setSessionCookie(ctx, token)
	utils.Success(ctx, gin.H{"user": user.Public()})
}

// Logout clears the session cookie and revokes the token until its natural
// expiry.
func (u *UserController) Logout(ctx *gin.Context) {
	if token, err := ctx.Cookie(middleware.SessionCookieName); err == nil && token != "" {
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			utils.BlacklistToken(token, claims.ExpiresAt.Time)
		}
	}
	clearSessionCookie(ctx)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// GetUser returns the authenticated user's own record.
func (u *UserController) GetUser(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40104, "unauthorized")
		return
	}

	var user models.User
	if err := u.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	utils.Success(ctx, gin.H{"user": user.Public()})
}

// GetAllUsers returns every account in its public representation.
func (u *UserController) GetAllUsers(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:users:all"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var users []models.User
	if err := u.db.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to retrieve users")
		return
	}

	items := make([]models.PublicUser, 0, len(users))
	for _, usr := range users {
		items = append(items, usr.Public())
	}

	payload := gin.H{"count": len(items), "items": items}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:users:all", wrapper, time.Hour)
	utils.Success(ctx, payload)
}

// UpdateProfile updates bio, workplace, address, relationship status, and
// optionally the profile and cover images (multipart form).
func (u *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40104, "unauthorized")
		return
	}

	var user models.User
	if err := u.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	if bio := strings.TrimSpace(ctx.PostForm("bio")); bio != "" {
		bio = utils.Sanitize(bio)
		if l := len([]rune(bio)); l < models.BioMinLen || l > models.BioMaxLen {
			utils.Error(ctx, http.StatusBadRequest, 40006, "bio must be 10-100 characters")
			return
		}
		user.Bio = bio
	}
	if workAt := strings.TrimSpace(ctx.PostForm("workAt")); workAt != "" {
		user.WorkAt = utils.Sanitize(workAt)
	}
	if address := strings.TrimSpace(ctx.PostForm("address")); address != "" {
		user.Address = utils.Sanitize(address)
	}
	if status := strings.TrimSpace(ctx.PostForm("relationshipStatus")); status != "" {
		if !models.ValidRelationshipStatus(status) {
			utils.Error(ctx, http.StatusBadRequest, 40007, "invalid relationship status")
			return
		}
		user.RelationshipStatus = status
	}

	var claimed []uint
	if header, err := ctx.FormFile("profileImage"); err == nil {
		file, err := utils.SaveImage(u.db, header, userID)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40008, "invalid profile image")
			return
		}
		utils.RemoveUploadByURL(u.db, user.ProfileImage)
		user.ProfileImage = file.URL
		claimed = append(claimed, file.ID)
	}
	if header, err := ctx.FormFile("coverImage"); err == nil {
		file, err := utils.SaveImage(u.db, header, userID)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40009, "invalid cover image")
			return
		}
		utils.RemoveUploadByURL(u.db, user.CoverImage)
		user.CoverImage = file.URL
		claimed = append(claimed, file.ID)
	}

	if err := u.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to update profile")
		return
	}
	for _, id := range claimed {
		_ = utils.ClaimUpload(u.db, id)
	}

	utils.InvalidateByPrefix("cache:users:")
	utils.Success(ctx, gin.H{"user": user.Public()})
}

// DeleteAccount removes the authenticated user together with their posts
// and the comments on them, then clears the session.
func (u *UserController) DeleteAccount(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40104, "unauthorized")
		return
	}

	var user models.User
	if err := u.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	var posts []models.Post
	_ = u.db.Where("user_id = ?", userID).Find(&posts).Error

	err := u.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		for _, post := range posts {
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50007, "failed to delete account")
		return
	}

	for _, post := range posts {
		utils.RemoveUploadByURL(u.db, post.Image)
	}
	utils.RemoveUploadByURL(u.db, user.ProfileImage)
	utils.RemoveUploadByURL(u.db, user.CoverImage)

	clearSessionCookie(ctx)
	utils.InvalidateByPrefix("cache:users:")
	utils.InvalidateByPrefix("cache:posts:")
	utils.Success(ctx, gin.H{"message": "account deleted"})
}

// ToggleFollow follows the target when no edge exists and unfollows it
// otherwise. Both sides of the edge are written in one transaction so a
// failure cannot strand an asymmetric relation. Calling it twice restores
// the original state.
func (u *UserController) ToggleFollow(ctx *gin.Context) {
	actorID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40104, "unauthorized")
		return
	}

	targetID64, err := strconv.ParseUint(strings.TrimSpace(ctx.Param("followerId")), 10, 64)
	if err != nil || targetID64 == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid user id")
		return
	}
	targetID := uint(targetID64)

	if targetID == actorID {
		utils.Error(ctx, http.StatusBadRequest, 40011, "cannot follow yourself")
		return
	}

	var following bool
	err = u.db.Transaction(func(tx *gorm.DB) error {
		var actor, target models.User
		if err := tx.First(&actor, actorID).Error; err != nil {
			return err
		}
		if err := tx.First(&target, targetID).Error; err != nil {
			return err
		}

		if actor.Following.Contains(targetID) {
			actor.Following = actor.Following.Remove(targetID)
			target.Followers = target.Followers.Remove(actorID)
			following = false
		} else {
			actor.Following = actor.Following.Add(targetID)
			target.Followers = target.Followers.Add(actorID)
			following = true
		}

		if err := tx.Save(&actor).Error; err != nil {
			return err
		}
		return tx.Save(&target).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50008, "failed to update follow state")
		return
	}

	utils.InvalidateByPrefix("cache:users:")
	utils.Success(ctx, gin.H{"following": following})
}

// LikePostRecord appends the post to the user's own liked-posts list. This
// list is maintained independently of the like set on the post itself and
// is append-only: a second call for the same post fails.
func (u *UserController) LikePostRecord(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40104, "unauthorized")
		return
	}

	postID64, err := strconv.ParseUint(strings.TrimSpace(ctx.Param("postId")), 10, 64)
	if err != nil || postID64 == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid post id")
		return
	}
	postID := uint(postID64)

	var user models.User
	if err := u.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	var post models.Post
	if err := u.db.First(&post, postID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
		return
	}

	if user.LikedPosts.Contains(postID) {
		utils.Error(ctx, http.StatusBadRequest, 40013, "post already liked")
		return
	}

	user.LikedPosts = user.LikedPosts.Add(postID)
	if err := u.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50009, "failed to record like")
		return
	}

	utils.InvalidateByPrefix("cache:users:")
	utils.Success(ctx, gin.H{"liked_posts": user.LikedPosts})
}
