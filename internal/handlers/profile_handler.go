package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bpariverside/skillswap-service/internal/repositories"
	"github.com/bpariverside/skillswap-service/internal/services"
	"github.com/bpariverside/skillswap-service/internal/utils"
)

type ProfileHandler struct {
	BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(logger),
		profileService: profileService,
	}
}

// Get returns the public profile for ?handle= with its sessions attached.
func (h *ProfileHandler) Get(c *gin.Context) {
	handle := c.Query("handle")
	if handle == "" {
		c.JSON(http.StatusBadRequest, Fail("handle is required"))
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), handle)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(profile))
}

func (h *ProfileHandler) Search(c *gin.Context) {
	filters := repositories.ProfileFilters{
		Tags:   c.QueryArray("tag"),
		Limit:  intQuery(c, "limit"),
		Offset: intQuery(c, "offset"),
	}

	results, err := h.profileService.Search(c.Request.Context(), c.Query("q"), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(results))
}

// intQuery parses an optional numeric query parameter; absent or garbage
// values fall back to zero and the repository defaults take over.
func intQuery(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}
