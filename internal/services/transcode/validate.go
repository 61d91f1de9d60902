package transcode

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Shimizu-Technology/wows-catalog/internal/models"
)

// ErrInvalidImage is returned by Validate when the image is not a data URI.
var ErrInvalidImage = errors.New("image must be a data URI (data:image/...;base64,...)")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// The tag name matches the `validate:"imagedatauri"` tag on DataDocument.Image.
	if err := v.RegisterValidation("imagedatauri", func(fl validator.FieldLevel) bool {
		return ValidateDataURI(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateDataURI reports whether s is empty or shaped like an image data URI.
// Only the shape is checked; the base64 payload is not decoded.
func ValidateDataURI(s string) bool {
	if s == "" {
		return true
	}
	rest, ok := strings.CutPrefix(s, "data:image/")
	return ok && strings.Contains(rest, ";base64,")
}

// Validate checks a document before it is written.
func Validate(doc models.DataDocument) error {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Tag() == "imagedatauri" {
				return ErrInvalidImage
			}
		}
	}
	return err
}
