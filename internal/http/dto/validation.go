package dto

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) ToMap() map[string]string {
	return map[string]string{e.Field: e.Message}
}

func ToMap(errs []ValidationError) map[string]string {
	result := make(map[string]string)
	for _, e := range errs {
		result[e.Field] = e.Message
	}
	return result
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

var locationRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// NormalizeLocation lower-cases and trims a location path parameter.
func NormalizeLocation(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func validateLocation(location string) []ValidationError {
	var errs []ValidationError
	if location == "" {
		errs = append(errs, ValidationError{Field: "location", Message: "is required"})
	} else if !locationRe.MatchString(location) {
		errs = append(errs, ValidationError{Field: "location", Message: "must be lower-case letters, digits, '-' or '_'"})
	}
	return errs
}

func parseForce(raw string) (bool, []ValidationError) {
	if raw == "" {
		return false, nil
	}
	force, err := strconv.ParseBool(raw)
	if err != nil {
		return false, []ValidationError{{Field: "force", Message: "must be true or false"}}
	}
	return force, nil
}

// MenuRequest is the location named in the path of a menu endpoint.
type MenuRequest struct {
	Location string
}

func (r MenuRequest) Validate() []ValidationError {
	return validateLocation(r.Location)
}

// RefreshRequest carries the refresh endpoint's inputs.
type RefreshRequest struct {
	Location string
	Force    bool
}

// NewRefreshRequest builds and validates a refresh request from raw inputs.
func NewRefreshRequest(location, force string) (RefreshRequest, []ValidationError) {
	req := RefreshRequest{Location: NormalizeLocation(location)}
	errs := validateLocation(req.Location)
	f, ferrs := parseForce(force)
	req.Force = f
	return req, append(errs, ferrs...)
}
