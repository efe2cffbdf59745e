package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dental-solution/internal/api/dto"
	apperrors "github.com/spec-kit/dental-solution/pkg/util/errorutil"
)

// parseBody decodes a JSON or form body into out and runs its validate tags.
// An empty body leaves out untouched so tag validation reports what is missing.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(out); err != nil {
			return apperrors.NewBadRequest("invalid payload", err)
		}
	}
	if details, err := dto.Validate(out); err != nil {
		return apperrors.NewValidationError("invalid payload", details)
	}
	return nil
}

// bodyFields returns every submitted field as a loose document, for
// endpoints that persist fields they do not know in advance.
func bodyFields(c *fiber.Ctx) (map[string]any, error) {
	fields := map[string]any{}
	if len(c.Body()) == 0 {
		return fields, nil
	}

	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
	switch {
	case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON):
		if err := c.BodyParser(&fields); err != nil {
			return nil, apperrors.NewBadRequest("invalid payload", err)
		}
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, apperrors.NewBadRequest("invalid payload", err)
		}
		for key, values := range form.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
	default:
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			fields[string(key)] = string(value)
		})
	}
	return fields, nil
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
