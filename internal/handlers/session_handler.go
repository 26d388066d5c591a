package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
	"github.com/bpariverside/skillswap-service/internal/services"
	"github.com/bpariverside/skillswap-service/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	reviewService  services.ReviewService
}

func NewSessionHandler(sessionService services.SessionService, reviewService services.ReviewService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		reviewService:  reviewService,
	}
}

// Get returns one session by ?id=. Public; the viewer enriches the
// response when authenticated.
func (h *SessionHandler) Get(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, Fail("id is required"))
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), id, CurrentActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(session))
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req services.SessionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Fail("invalid request payload"))
		return
	}

	session, err := h.sessionService.Create(c.Request.Context(), CurrentActor(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(session))
}

func (h *SessionHandler) Update(c *gin.Context) {
	var req services.SessionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Fail("invalid request payload"))
		return
	}

	session, err := h.sessionService.Update(c.Request.Context(), CurrentActor(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(session))
}

func (h *SessionHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, Fail("id is required"))
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), CurrentActor(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(nil))
}

func (h *SessionHandler) Search(c *gin.Context) {
	filters := repositories.SessionFilters{
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
		Limit:     intQuery(c, "limit"),
		Offset:    intQuery(c, "offset"),
	}
	if d := c.Query("difficulty"); d != "" {
		difficulty := models.DifficultyLevel(d)
		filters.Difficulty = &difficulty
	}

	results, err := h.sessionService.Search(c.Request.Context(), c.Query("q"), filters, CurrentActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(results))
}

// Register signs the caller up as an attendee of ?id=.
func (h *SessionHandler) Register(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, Fail("id is required"))
		return
	}

	if err := h.sessionService.RegisterAttendee(c.Request.Context(), CurrentActor(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(nil))
}

func (h *SessionHandler) Unregister(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, Fail("id is required"))
		return
	}

	if err := h.sessionService.UnregisterAttendee(c.Request.Context(), CurrentActor(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(nil))
}

// Rate stores or replaces the caller's review of a session's host.
func (h *SessionHandler) Rate(c *gin.Context) {
	var req services.RateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Fail("invalid request payload"))
		return
	}

	review, err := h.reviewService.Rate(c.Request.Context(), CurrentActor(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(review))
}

// Unrate removes a review. ?author= lets hosts and admins target reviews
// they did not write; it defaults to the caller.
func (h *SessionHandler) Unrate(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, Fail("id is required"))
		return
	}

	actor := CurrentActor(c)
	authorID := c.Query("author")
	if authorID == "" {
		authorID = actor.UserID
	}

	if err := h.reviewService.Remove(c.Request.Context(), actor, id, authorID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(nil))
}
