package middlewares

import (
	"encoding/json"
	"net/http"

	"OdontoSystem/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/pkg/errors"
)

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError writes err as {"error": message} with the status of its code.
// Errors outside the taxonomy become 500 responses with a generic message.
func HttpError(c *gin.Context, err error) {
	appErr := apperrors.As(err)
	if appErr == nil {
		appErr = apperrors.Wrap(apperrors.CodeInternal, err, "unexpected error")
	}
	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		requestLogger(c).Error(c.Request.Context(), "request failed", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": appErr.PublicMessage()})
}

// BindJSON decodes the request body into dest and reports malformed payloads
// as validation errors. Unknown fields are rejected.
func BindJSON(c *gin.Context, dest any) bool {
	if err := decodeStrictJSON(c.Request, dest); err != nil {
		HttpError(c, apperrors.Validation("invalid request body: "+err.Error()))
		return false
	}
	return true
}

func decodeStrictJSON(req *http.Request, dest any) error {
	if req == nil || req.Body == nil {
		return errors.New("invalid request")
	}
	decoder := json.NewDecoder(req.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if binding.Validator == nil {
		return nil
	}
	return binding.Validator.ValidateStruct(dest)
}
