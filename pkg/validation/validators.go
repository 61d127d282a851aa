package validation

import (
	"regexp"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Partner display names: letters in any script plus the punctuation creators and
	// agencies use ("Jamie O'Neil", "Rivera & Co.", "Studio/North").
	partnerNameRegex = regexp.MustCompile(`^[\p{L}0-9 .'/&(),-]+$`)

	// Partner contact numbers as entered on the settings form, stored without spaces.
	contactPhoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	// Payout currency, checked before the usecase upper-cases it.
	currencyCodeRegex = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

// New returns a validator with the marketplace form tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators adds the tags used by the onboarding and settings inputs.
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("max_current_year", MaxCurrentYear)
	_ = v.RegisterValidation("currency_code", CurrencyCode)
}

// ValidName checks a partner's full name. Empty passes; the settings form allows
// clearing it.
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return partnerNameRegex.MatchString(val)
}

// ValidPhone checks the partner contact number. Empty passes.
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return contactPhoneRegex.MatchString(val)
}

// NoEmoji keeps company and program names plain text, since they are shown in
// marketplace cards, export sheets and notification emails.
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r > 0x1F000 || unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

// MaxCurrentYear rejects a company founding year in the future. Zero means unset.
func MaxCurrentYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	if year == 0 {
		return true
	}
	return year <= int64(time.Now().Year())
}

// CurrencyCode accepts a three letter payout currency such as EUR or usd.
func CurrencyCode(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return currencyCodeRegex.MatchString(val)
}
