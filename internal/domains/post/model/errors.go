package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"edunews-backend/internal/shared/response"
)

var (
	// Validation errors - caller input fails a precondition, nothing was sent
	// to either store.
	ErrImageRequired = errors.New("an image is required to create a post")
	ErrImageTooLarge = errors.New("image exceeds maximum size (5MB)")
	ErrInvalidImage  = errors.New("image must be JPEG or PNG format")

	// Terminal operation errors.
	ErrImageUpload  = errors.New("image upload failed")
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("post belongs to another user")

	// ErrAssetDelete classifies a failed blob delete. It never terminates an
	// operation: the coordinator logs it and proceeds.
	ErrAssetDelete = errors.New("asset delete failed")
)

var postErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrPostNotFound: {
		Status:  http.StatusNotFound,
		Code:    "POST_NOT_FOUND",
		Message: "The specified post does not exist",
	},
	ErrNotPostOwner: {
		Status:  http.StatusForbidden,
		Code:    "NOT_POST_OWNER",
		Message: "You can only modify your own posts",
	},
	ErrImageRequired: {
		Status:  http.StatusBadRequest,
		Code:    "IMAGE_REQUIRED",
		Message: "Please select an image for the post",
	},
	ErrImageTooLarge: {
		Status:  http.StatusBadRequest,
		Code:    "IMAGE_TOO_LARGE",
		Message: "The selected image is larger than 5MB",
	},
	ErrInvalidImage: {
		Status:  http.StatusBadRequest,
		Code:    "INVALID_IMAGE",
		Message: "Only JPEG and PNG images are accepted",
	},
	ErrImageUpload: {
		Status:  http.StatusBadGateway,
		Code:    "IMAGE_UPLOAD_FAILED",
		Message: "The image could not be uploaded, please try again",
	},
}

// HandlePostError writes the HTTP response for a service error and returns
// true if err was non-nil. Field-scoped validation errors keep their
// per-field messages; anything unmapped is a persist failure and comes back
// as a 500 without leaking internals.
func HandlePostError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED",
			"One or more fields are invalid", fieldErrs)
		return true
	}

	for sentinel, cfg := range postErrorMap {
		if errors.Is(err, sentinel) {
			response.ErrorResponse(c, cfg.Status, cfg.Code, cfg.Message)
			return true
		}
	}

	log.Error().Err(err).Msg("post operation failed")
	response.InternalServerError(c, "Something went wrong, please try again later")
	return true
}
