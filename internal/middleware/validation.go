package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/eduquest/client/internal/pkg/apperrors"
	"github.com/eduquest/client/internal/pkg/validation"
)

// BindAndValidate decodes the request body (JSON or form) into obj and checks
// its validate tags. On failure it writes the error response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		HandleAPIError(c, apperrors.NewBadRequestError("Invalid request format: "+err.Error()))
		return false
	}
	if err := validation.Struct(obj); err != nil {
		HandleAPIError(c, err)
		return false
	}
	return true
}
