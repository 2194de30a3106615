package controllers_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"snapnet/middleware"
	"snapnet/models"
)

func TestCreatePostRequiresTitleAndImage(t *testing.T) {
	db, r := newTestEnv(t)
	token, _ := registerUser(t, r, "Ann", "Lee", "poster@x.com")

	noImage := doForm(r, http.MethodPost, "/api/post/create",
		map[string]string{"title": "hello"}, nil, token)
	require.Equal(t, http.StatusBadRequest, noImage.Code)

	noTitle := doForm(r, http.MethodPost, "/api/post/create",
		nil, map[string][]byte{"postImage": []byte("bytes")}, token)
	require.Equal(t, http.StatusBadRequest, noTitle.Code)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestCreatePostStartsEmpty(t *testing.T) {
	db, r := newTestEnv(t)
	token, userID := registerUser(t, r, "Ann", "Lee", "fresh@x.com")

	w := doForm(r, http.MethodPost, "/api/post/create",
		map[string]string{"title": "first light"},
		map[string][]byte{"postImage": []byte("bytes")},
		token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Post models.PostView `json:"post"`
	}
	decodeData(t, w.Body.Bytes(), &resp)
	require.Equal(t, "first light", resp.Post.Title)
	require.NotEmpty(t, resp.Post.Image)
	require.Empty(t, resp.Post.Likes)
	require.Empty(t, resp.Post.Comments)
	require.Equal(t, userID, resp.Post.Author.ID)

	// The author's own post list is updated in the same transaction.
	var author models.User
	require.NoError(t, db.First(&author, userID).Error)
	require.True(t, author.Posts.Contains(resp.Post.ID))
}

func TestCreatePostRejectsBadExtension(t *testing.T) {
	_, r := newTestEnv(t)
	token, _ := registerUser(t, r, "Ann", "Lee", "ext@x.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "nope"))
	fw, err := mw.CreateFormFile("postImage", "payload.exe")
	require.NoError(t, err)
	_, err = fw.Write([]byte("MZ"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/post/create", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleLikeIsItsOwnInverse(t *testing.T) {
	db, r := newTestEnv(t)
	token, userID := registerUser(t, r, "Ann", "Lee", "toggler@x.com")
	postID := createPost(t, r, token, "toggle me")

	like := doJSON(r, http.MethodPut, fmt.Sprintf("/api/post/like/%d", postID), nil, token)
	require.Equal(t, http.StatusOK, like.Code, like.Body.String())
	require.Contains(t, like.Body.String(), `"liked":true`)

	var post models.Post
	require.NoError(t, db.First(&post, postID).Error)
	require.Equal(t, models.IDList{userID}, post.Likes)

	unlike := doJSON(r, http.MethodPut, fmt.Sprintf("/api/post/like/%d", postID), nil, token)
	require.Equal(t, http.StatusOK, unlike.Code)
	require.Contains(t, unlike.Body.String(), `"liked":false`)

	require.NoError(t, db.First(&post, postID).Error)
	require.Len(t, post.Likes, 0)
}

// Full session walkthrough: register, log in again, post, like, unlike.
func TestRegisterLoginPostLikeUnlike(t *testing.T) {
	db, r := newTestEnv(t)
	registerUser(t, r, "Ann", "Lee", "journey@x.com")

	login := doJSON(r, http.MethodPost, "/api/user/login", gin.H{
		"email":    "journey@x.com",
		"password": "secret12",
	}, "")
	require.Equal(t, http.StatusOK, login.Code)
	token := sessionCookie(t, login)
	require.NotEmpty(t, token)

	postID := createPost(t, r, token, "a day out")

	like := doJSON(r, http.MethodPut, fmt.Sprintf("/api/post/like/%d", postID), nil, token)
	require.Equal(t, http.StatusOK, like.Code)
	unlike := doJSON(r, http.MethodPut, fmt.Sprintf("/api/post/like/%d", postID), nil, token)
	require.Equal(t, http.StatusOK, unlike.Code)

	var post models.Post
	require.NoError(t, db.First(&post, postID).Error)
	require.Len(t, post.Likes, 0)
}

func TestToggleLikeMissingPost(t *testing.T) {
	_, r := newTestEnv(t)
	token, _ := registerUser(t, r, "Ann", "Lee", "ghostlike@x.com")

	w := doJSON(r, http.MethodPut, "/api/post/like/9999", nil, token)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateComment(t *testing.T) {
	_, r := newTestEnv(t)
	annToken, _ := registerUser(t, r, "Ann", "Lee", "ca@x.com")
	bobToken, bobID := registerUser(t, r, "Bob", "Ray", "cb@x.com")
	postID := createPost(t, r, annToken, "discuss")

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/post/comment/%d", postID),
		gin.H{"text": "great shot"}, bobToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Comment models.CommentView `json:"comment"`
	}
	decodeData(t, w.Body.Bytes(), &resp)
	require.Equal(t, "great shot", resp.Comment.Text)
	require.Equal(t, bobID, resp.Comment.Author.ID)
}

func TestCreateCommentRejectsEmptyText(t *testing.T) {
	db, r := newTestEnv(t)
	token, _ := registerUser(t, r, "Ann", "Lee", "silent@x.com")
	postID := createPost(t, r, token, "quiet")

	missing := doJSON(r, http.MethodPost, fmt.Sprintf("/api/post/comment/%d", postID), gin.H{}, token)
	require.Equal(t, http.StatusBadRequest, missing.Code)

	blank := doJSON(r, http.MethodPost, fmt.Sprintf("/api/post/comment/%d", postID),
		gin.H{"text": "   "}, token)
	require.Equal(t, http.StatusBadRequest, blank.Code)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestCreateCommentMissingPost(t *testing.T) {
	_, r := newTestEnv(t)
	token, _ := registerUser(t, r, "Ann", "Lee", "void@x.com")

	w := doJSON(r, http.MethodPost, "/api/post/comment/9999", gin.H{"text": "hello?"}, token)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdatePostOwnershipAndTitle(t *testing.T) {
	db, r := newTestEnv(t)
	annToken, _ := registerUser(t, r, "Ann", "Lee", "ua@x.com")
	bobToken, _ := registerUser(t, r, "Bob", "Ray", "ub@x.com")
	postID := createPost(t, r, annToken, "original")

	stranger := doForm(r, http.MethodPut, fmt.Sprintf("/api/post/update/%d", postID),
		map[string]string{"title": "hijacked"}, nil, bobToken)
	require.Equal(t, http.StatusForbidden, stranger.Code)

	empty := doForm(r, http.MethodPut, fmt.Sprintf("/api/post/update/%d", postID),
		map[string]string{"title": "   "}, nil, annToken)
	require.Equal(t, http.StatusBadRequest, empty.Code)

	ok := doForm(r, http.MethodPut, fmt.Sprintf("/api/post/update/%d", postID),
		map[string]string{"title": "revised"}, nil, annToken)
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())

	var post models.Post
	require.NoError(t, db.First(&post, postID).Error)
	require.Equal(t, "revised", post.Title)

	missing := doForm(r, http.MethodPut, "/api/post/update/9999",
		map[string]string{"title": "nowhere"}, nil, annToken)
	require.Equal(t, http.StatusNotFound, missing.Code)
}

func TestDeletePost(t *testing.T) {
	db, r := newTestEnv(t)
	annToken, annID := registerUser(t, r, "Ann", "Lee", "da@x.com")
	bobToken, _ := registerUser(t, r, "Bob", "Ray", "db@x.com")
	postID := createPost(t, r, annToken, "short-lived")

	comment := doJSON(r, http.MethodPost, fmt.Sprintf("/api/post/comment/%d", postID),
		gin.H{"text": "soon gone"}, bobToken)
	require.Equal(t, http.StatusCreated, comment.Code)

	stranger := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/post/delete/%d", postID), nil, bobToken)
	require.Equal(t, http.StatusForbidden, stranger.Code)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/post/delete/%d", postID), nil, annToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var posts, comments int64
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", postID).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&comments).Error)
	require.EqualValues(t, 0, posts)
	require.EqualValues(t, 0, comments)

	var ann models.User
	require.NoError(t, db.First(&ann, annID).Error)
	require.False(t, ann.Posts.Contains(postID))

	again := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/post/delete/%d", postID), nil, annToken)
	require.Equal(t, http.StatusNotFound, again.Code)
}

func TestListPostsNewestFirst(t *testing.T) {
	_, r := newTestEnv(t)
	annToken, annID := registerUser(t, r, "Ann", "Lee", "la@x.com")
	bobToken, _ := registerUser(t, r, "Bob", "Ray", "lb@x.com")

	firstID := createPost(t, r, annToken, "first")
	secondID := createPost(t, r, annToken, "second")

	comment := doJSON(r, http.MethodPost, fmt.Sprintf("/api/post/comment/%d", firstID),
		gin.H{"text": "late reply"}, bobToken)
	require.Equal(t, http.StatusCreated, comment.Code)

	w := doJSON(r, http.MethodGet, "/api/post/all", nil, annToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Count int               `json:"count"`
		Items []models.PostView `json:"items"`
	}
	decodeData(t, w.Body.Bytes(), &resp)
	require.Equal(t, 2, resp.Count)
	require.Len(t, resp.Items, 2)

	// Newest first.
	require.Equal(t, secondID, resp.Items[0].ID)
	require.Equal(t, firstID, resp.Items[1].ID)

	require.Equal(t, annID, resp.Items[0].Author.ID)
	require.Len(t, resp.Items[1].Comments, 1)
	require.Equal(t, "late reply", resp.Items[1].Comments[0].Text)

	require.NotContains(t, strings.ToLower(w.Body.String()), "password")
}

func TestPostRoutesRequireSession(t *testing.T) {
	_, r := newTestEnv(t)

	w := doJSON(r, http.MethodGet, "/api/post/all", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doForm(r, http.MethodPost, "/api/post/create",
		map[string]string{"title": "nope"}, nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
