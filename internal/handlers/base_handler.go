package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bpariverside/skillswap-service/internal/services"
	"github.com/bpariverside/skillswap-service/internal/utils"
	"github.com/bpariverside/skillswap-service/internal/validator"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

func Fail(err interface{}) Response {
	return Response{Success: false, Error: err}
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c.Request.Context(), h.logger).Info(msg, args...)
}

// handleServiceError maps service-layer errors onto HTTP statuses. 500s
// carry a generic message; the cause only reaches the log.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	var perr *services.PermissionError

	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, Fail(verrs))

	case errors.As(err, &perr):
		c.JSON(http.StatusForbidden, Fail(perr.Error()))
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrRegistrationKeyInvalid):
		c.JSON(http.StatusForbidden, Fail(err.Error()))

	case errors.Is(err, services.ErrSelfAction),
		errors.Is(err, services.ErrAvatarOutsideStore):
		c.JSON(http.StatusBadRequest, Fail(err.Error()))

	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, Fail(err.Error()))

	case errors.Is(err, services.ErrDuplicateUser),
		errors.Is(err, services.ErrDuplicateRegistration):
		c.JSON(http.StatusConflict, Fail(err.Error()))

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, Fail(err.Error()))

	case errors.Is(err, services.ErrAvatarTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, Fail(err.Error()))
	case errors.Is(err, services.ErrAvatarUnsupportedType):
		c.JSON(http.StatusUnsupportedMediaType, Fail(err.Error()))

	default:
		utils.LoggerFromContext(c.Request.Context(), h.logger).Error("request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, Fail("internal server error"))
	}
}
