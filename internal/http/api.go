package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"social-feed/internal/service"
	"social-feed/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth           service.AuthService
	posts          service.PostService
	users          service.UserService
	tokens         *service.TokenIssuer
	storage        storage.Service
	logger         *logrus.Logger
	maxUploadBytes int64
}

func NewHandler(
	auth service.AuthService,
	posts service.PostService,
	users service.UserService,
	tokens *service.TokenIssuer,
	store storage.Service,
	logger *logrus.Logger,
	maxUploadBytes int64,
) *Handler {
	useJSONFieldNames()
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		auth:           auth,
		posts:          posts,
		users:          users,
		tokens:         tokens,
		storage:        store,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	var bodyLimit int64
	if h.maxUploadBytes > 0 {
		bodyLimit = h.maxUploadBytes + bodyLimitSlack
	}
	router.Use(requestLogger(h.logger), securityHeaders(), limitBody(bodyLimit))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
	router.GET("/assets/*key", h.getAsset)

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}

	protected := router.Group("/", h.requireToken())
	{
		protected.POST("/post", h.createPost)
		protected.GET("/posts", h.getFeedPosts)
		// :id is the author's user ID on the two reads and the post ID on like
		protected.GET("/posts/:id", h.getUserPosts)
		protected.GET("/posts/:id/posts", h.getUserPosts)
		protected.PATCH("/posts/:id/like", h.likePost)
		protected.GET("/users/:id", h.getUser)
		protected.GET("/users/:id/friends", h.getUserFriends)
	}
}

type registerRequest struct {
	FirstName   string   `json:"firstName" form:"firstName" binding:"required,min=2,max=50"`
	LastName    string   `json:"lastName" form:"lastName" binding:"required,min=2,max=50"`
	Email       string   `json:"email" form:"email" binding:"required,email,max=50"`
	Password    string   `json:"password" form:"password" binding:"required,min=5"`
	PicturePath string   `json:"picturePath" form:"picturePath"`
	Friends     []string `json:"friends" form:"friends"`
	Location    string   `json:"location" form:"location"`
	Occupation  string   `json:"occupation" form:"occupation"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createPostRequest struct {
	UserID      string `json:"userId" form:"userId" binding:"required"`
	Description string `json:"description" form:"description"`
	PicturePath string `json:"picturePath" form:"picturePath"`
}

type likePostRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondError(c, "error", http.StatusBadRequest, bindError(err))
		return
	}

	picture, err := h.savePicture(c)
	if err != nil {
		h.respondError(c, "error", http.StatusInternalServerError, err)
		return
	}
	if picture != "" {
		req.PicturePath = picture
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		PicturePath: req.PicturePath,
		Friends:     req.Friends,
		Location:    req.Location,
		Occupation:  req.Occupation,
	})
	if err != nil {
		h.discardPicture(c, picture)
		h.respondError(c, "error", http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusCreated, userToResponse(*user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "msg", http.StatusBadRequest, bindError(err))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// unknown email and wrong password look the same to the caller
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid credentials."})
			return
		}
		h.respondError(c, "msg", http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token: result.Token,
		User:  userToResponse(*result.User),
	})
}

func (h *Handler) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondError(c, "message", http.StatusBadRequest, bindError(err))
		return
	}

	picture, err := h.savePicture(c)
	if err != nil {
		h.respondError(c, "message", http.StatusConflict, err)
		return
	}
	if picture != "" {
		req.PicturePath = picture
	}

	posts, err := h.posts.CreatePost(c.Request.Context(), service.CreatePostInput{
		UserID:      req.UserID,
		Description: req.Description,
		PicturePath: req.PicturePath,
	})
	if err != nil {
		// the post already references the picture once it is stored
		if !errors.Is(err, service.ErrFeedReload) {
			h.discardPicture(c, picture)
		}
		h.respondError(c, "message", http.StatusConflict, err)
		return
	}

	c.JSON(http.StatusCreated, postsToResponse(posts))
}

func (h *Handler) getFeedPosts(c *gin.Context) {
	posts, err := h.posts.GetFeedPosts(c.Request.Context())
	if err != nil {
		h.respondError(c, "message", http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, postsToResponse(posts))
}

func (h *Handler) getUserPosts(c *gin.Context) {
	posts, err := h.posts.GetUserPosts(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "message", http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, postsToResponse(posts))
}

func (h *Handler) likePost(c *gin.Context) {
	var req likePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "message", http.StatusBadRequest, bindError(err))
		return
	}

	post, err := h.posts.LikePost(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		h.respondError(c, "message", http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "message", http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) getUserFriends(c *gin.Context) {
	friends, err := h.users.GetUserFriends(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "message", http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, usersToResponse(friends))
}

func (h *Handler) getAsset(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	obj, err := h.storage.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "asset not found"})
			return
		}
		h.respondError(c, "message", http.StatusInternalServerError, err)
		return
	}
	defer obj.Body.Close()

	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}
