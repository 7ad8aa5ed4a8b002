// Package schemavalidator holds the shared request validator and the custom tags
// used by the catalog request schemas.
package schemavalidator

import (
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// V returns the process wide validator. Field names in its errors are JSON names.
func V() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := GetJSONTag(f)
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

var driveLinkRe = regexp.MustCompile(`(?i)^https?://(drive\.google\.com|docs\.google\.com)/.+`)

// IsDriveLink reports whether link points at a Google Drive or Docs document.
func IsDriveLink(link string) bool {
	return driveLinkRe.MatchString(link)
}

func notBlankValidator(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func driveLinkValidator(fl validator.FieldLevel) bool {
	return IsDriveLink(fl.Field().String())
}

// weblinkValidator accepts an empty value or an absolute http(s) URL.
func weblinkValidator(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// contactEmailValidator accepts an empty value or an email address.
func contactEmailValidator(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return V().Var(s, "email") == nil
}

func init() {
	V().RegisterValidation("notblank", notBlankValidator)
	V().RegisterValidation("drivelink", driveLinkValidator)
	V().RegisterValidation("weblink", weblinkValidator)
	V().RegisterValidation("contactemail", contactEmailValidator)
}
