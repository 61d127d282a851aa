package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the labels used in form errors
var FieldLabels = map[string]string{
	// Auth
	"Email":           "Email",
	"Password":        "Password",
	"NewPassword":     "New password",
	"ConfirmPassword": "Confirm password",
	"Role":            "Account type",

	// Company / program
	"Name":               "Company name",
	"LogoURL":            "Logo URL",
	"Website":            "Website",
	"Description":        "Description",
	"ShortDescription":   "Short description",
	"LongDescription":    "Long description",
	"Category":           "Category",
	"YearFounded":        "Year founded",
	"CommissionModel":    "Commission model",
	"CommissionRate":     "Commission rate",
	"CookieDuration":     "Cookie duration",
	"LandingPageURL":     "Landing page URL",
	"TrackingMethod":     "Tracking method",
	"PartnerProgramURL":  "Partner program URL",
	"ExclusiveDeal":      "Exclusive deal",
	"TechnicalContact":   "Technical contact",
	"GeoRestrictions":    "Geo restrictions",
	"SupportedLanguages": "Supported languages",

	// Partner
	"FullName":          "Full name",
	"AvatarURL":         "Avatar URL",
	"Phone":             "Phone number",
	"Country":           "Country",
	"PromotionPlatform": "Promotion platform",
	"PlatformURL":       "Platform URL",
	"AudienceSize":      "Audience size",
	"Niche":             "Niche",
	"PaymentMethod":     "Payment method",
	"PaymentDetails":    "Payment details",
	"TaxInfo":           "Tax info",
	"PreferredCurrency": "Preferred currency",
	"Bio":               "Bio",
	"Skills":            "Skills",

	// Messaging
	"Body":   "Message",
	"Status": "Status",
}

// ValidationRules holds units shown next to min/max values
var ValidationRules = map[string]map[string]interface{}{
	"CookieDuration": {"unit": "days"},
	"CommissionRate": {"unit": "%"},
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	fieldName := e.Field()
	label := getFieldLabel(fieldName)
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)

	case "min":
		if unit, ok := ValidationRules[fieldName]["unit"]; ok {
			return fmt.Sprintf("%s must be at least %s %s", label, param, unit)
		}
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s needs at least %s entries", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)

	case "max":
		if unit, ok := ValidationRules[fieldName]["unit"]; ok {
			return fmt.Sprintf("%s must be at most %s %s", label, param, unit)
		}
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s allows at most %s entries", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)

	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", label, param)

	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(param), ", "))

	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)

	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)

	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, digits, spaces and . ' / & ( ) , -", label)

	case "valid_phone":
		return fmt.Sprintf("%s must be 7-15 digits with an optional leading +, no spaces", label)

	case "no_emoji":
		return fmt.Sprintf("%s is shown on marketplace listings and cannot contain emoji or symbols", label)

	case "max_current_year":
		return fmt.Sprintf("%s cannot be in the future", label)

	case "currency_code":
		return fmt.Sprintf("%s must be a three letter currency code such as USD or EUR", label)

	case "eqfield":
		return fmt.Sprintf("%s must match %s", label, getFieldLabel(param))

	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
