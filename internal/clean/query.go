package clean

import (
	"strconv"
	"strings"

	apperrors "github.com/Zia-11/web-project/pkg/util"
)

const (
	maxNameLength = 50
	minAge        = 0
	maxAge        = 120
)

// QueryParams is the cleaned result of ValidateQuery.
type QueryParams struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// ValidateQuery validates and normalizes the sample query schema:
// name (string, trimmed, at most 50 chars) and age (integer, 0-120).
// Every violated field is reported, not just the first.
func ValidateQuery(name, age string) (*QueryParams, error) {
	fields := map[string][]string{}

	name = strings.TrimSpace(name)
	if name == "" {
		fields["name"] = append(fields["name"], "this field is required")
	} else if len(name) > maxNameLength {
		fields["name"] = append(fields["name"], "ensure this field has no more than 50 characters")
	}

	parsedAge := 0
	if age == "" {
		fields["age"] = append(fields["age"], "this field is required")
	} else {
		parsed, err := strconv.Atoi(age)
		switch {
		case err != nil:
			fields["age"] = append(fields["age"], "a valid integer is required")
		case parsed < minAge || parsed > maxAge:
			fields["age"] = append(fields["age"], "ensure this value is between 0 and 120")
		default:
			parsedAge = parsed
		}
	}

	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("validation failed", apperrors.FieldErrors(fields))
	}
	return &QueryParams{Name: name, Age: parsedAge}, nil
}
