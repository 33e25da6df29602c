package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"social-feed/internal/domain"
	"social-feed/internal/service"
)

// UserResponse is the public projection of a user. It never carries the password hash.
type UserResponse struct {
	ID            string   `json:"_id"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	Email         string   `json:"email"`
	PicturePath   string   `json:"picturePath"`
	Friends       []string `json:"friends"`
	Location      string   `json:"location"`
	Occupation    string   `json:"occupation"`
	ViewedProfile int      `json:"viewedProfile"`
	Impressions   int      `json:"impressions"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

type PostResponse struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"userId"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Location        string          `json:"location"`
	Description     string          `json:"description"`
	UserPicturePath string          `json:"userPicturePath"`
	PicturePath     string          `json:"picturePath"`
	Likes           map[string]bool `json:"likes"`
	Comments        []string        `json:"comments"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func userToResponse(user domain.User) UserResponse {
	friends := user.Friends
	if friends == nil {
		friends = []string{}
	}
	return UserResponse{
		ID:            user.ID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Email:         user.Email,
		PicturePath:   user.PicturePath,
		Friends:       friends,
		Location:      user.Location,
		Occupation:    user.Occupation,
		ViewedProfile: user.ViewedProfile,
		Impressions:   user.Impressions,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     user.UpdatedAt.Format(time.RFC3339),
	}
}

func usersToResponse(users []domain.User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	return resp
}

func postToResponse(post domain.Post) PostResponse {
	likes := make(map[string]bool, len(post.Likes))
	for userID, liked := range post.Likes {
		if liked {
			likes[userID] = true
		}
	}
	comments := post.Comments
	if comments == nil {
		comments = []string{}
	}
	return PostResponse{
		ID:              post.ID,
		UserID:          post.UserID,
		FirstName:       post.FirstName,
		LastName:        post.LastName,
		Location:        post.Location,
		Description:     post.Description,
		UserPicturePath: post.UserPicturePath,
		PicturePath:     post.PicturePath,
		Likes:           likes,
		Comments:        comments,
		CreatedAt:       post.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       post.UpdatedAt.Format(time.RFC3339),
	}
}

func postsToResponse(posts []domain.Post) []PostResponse {
	resp := make([]PostResponse, len(posts))
	for i := range posts {
		resp[i] = postToResponse(posts[i])
	}
	return resp
}

// statusFor maps service errors to HTTP statuses. Errors that carry no
// client-facing kind keep the route's fallback status.
func statusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return fallback
}

// respondError writes err under key ("error", "msg" or "message" depending on the route).
func (h *Handler) respondError(c *gin.Context, key string, fallback int, err error) {
	status := statusFor(err, fallback)
	entry := h.logger.WithFields(logrus.Fields{
		"path":       c.FullPath(),
		"status":     status,
		"request_id": requestIDFromContext(c),
	}).WithError(err)
	if errors.Is(err, service.ErrPersistence) || status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	c.JSON(status, gin.H{key: err.Error()})
}
