package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"clinichr/internal/transport/http/api"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// DecodeValid decodes r's JSON body into dst and checks its validate tags.
// On failure it writes the error response and returns false.
func DecodeValid(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			api.Fail(w, http.StatusBadRequest, "validation_error", "payload validation failed", requestID)
			return false
		}
		issues := make([]ValidationIssue, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			issues = append(issues, ValidationIssue{Field: fieldName(fe), Reason: reason(fe)})
		}
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "payload validation failed",
			map[string]any{"fields": issues}, requestID)
		return false
	}
	return true
}

func fieldName(fe validator.FieldError) string {
	// Trim the struct name from the namespace: "TimeInPayload.TimeIn" -> "TimeIn".
	name := fe.Namespace()
	if idx := strings.Index(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a valid date in YYYY-MM-DD format"
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}
