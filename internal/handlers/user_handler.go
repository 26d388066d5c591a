package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bpariverside/skillswap-service/internal/services"
	"github.com/bpariverside/skillswap-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
}

func NewUserHandler(userService services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

// Get returns the authenticated account with its profile.
func (h *UserHandler) Get(c *gin.Context) {
	actor := CurrentActor(c)

	user, err := h.userService.Get(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(user))
}

func (h *UserHandler) UpdateSettings(c *gin.Context) {
	actor := CurrentActor(c)

	var req services.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Fail("invalid request payload"))
		return
	}

	profile, err := h.userService.UpdateSettings(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(profile))
}

// Delete removes an account: the caller's own, or by handle for admins.
func (h *UserHandler) Delete(c *gin.Context) {
	actor := CurrentActor(c)
	handle := c.Query("handle")

	h.LogRequest(c, "deleting account", "user_id", actor.UserID, "target_handle", handle)

	if err := h.userService.Delete(c.Request.Context(), actor, handle); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(nil))
}

// UploadAvatar accepts a multipart "avatar" file and stores it under the
// caller's handle.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	actor := CurrentActor(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, Fail("avatar file is required"))
		return
	}

	reader, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, Fail("could not read upload"))
		return
	}
	defer reader.Close()

	url, err := h.userService.UploadAvatar(c.Request.Context(), actor.UserID, &services.AvatarUpload{
		Content:     reader,
		Size:        file.Size,
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(gin.H{"avatar_url": url}))
}
