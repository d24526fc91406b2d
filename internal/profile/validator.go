package profile

import (
	"regexp"
	"strings"

	"storefront-service/internal/models"
)

// Field names accepted by ValidateField.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldAddress   = "address"
	FieldCity      = "city"
	FieldState     = "state"
	FieldZip       = "zip"
	FieldCountry   = "country"
)

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z][A-Za-z '\-]*$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	zipRe   = regexp.MustCompile(`^\d{5}$`)
	digitRe = regexp.MustCompile(`\D`)
)

// ValidateField checks one field value and returns a human-readable message,
// or "" when the value passes. Unknown fields always pass.
func ValidateField(name, value string) string {
	value = strings.TrimSpace(value)

	switch name {
	case FieldFirstName, FieldLastName:
		label := "First name"
		if name == FieldLastName {
			label = "Last name"
		}
		if value == "" {
			return label + " is required"
		}
		if len(value) < 2 || len(value) > 25 {
			return label + " must be 2-25 characters"
		}
		if !nameRe.MatchString(value) {
			return label + " may only contain letters"
		}

	case FieldEmail:
		if value == "" {
			return "Email is required"
		}
		if len(value) > 50 {
			return "Email must be 50 characters or less"
		}
		if !emailRe.MatchString(value) {
			return "Enter a valid email address"
		}

	case FieldPhone:
		if value == "" {
			return "Phone number is required"
		}
		digits := digitRe.ReplaceAllString(value, "")
		if len(digits) != 10 {
			return "Phone number must be 10 digits"
		}

	case FieldZip:
		if value == "" {
			return "ZIP code is required"
		}
		if !zipRe.MatchString(value) {
			return "ZIP code must be 5 digits"
		}

	case FieldAddress:
		if value != "" && len(value) < 5 {
			return "Address must be at least 5 characters"
		}
	}

	return ""
}

// ValidateAll validates every field of a profile. The returned map is keyed
// by field name and empty when the profile is valid.
func ValidateAll(p *models.Profile) map[string]string {
	fields := map[string]string{
		FieldFirstName: p.FirstName,
		FieldLastName:  p.LastName,
		FieldEmail:     p.Email,
		FieldPhone:     p.Phone,
		FieldAddress:   p.Address,
		FieldCity:      p.City,
		FieldState:     p.State,
		FieldZip:       p.Zip,
		FieldCountry:   p.Country,
	}

	errs := make(map[string]string)
	for name, value := range fields {
		if msg := ValidateField(name, value); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}
