package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settingsForm struct {
	Name        string `validate:"required,no_emoji"`
	FullName    string `validate:"valid_name"`
	Phone       string `validate:"valid_phone"`
	YearFounded int    `validate:"omitempty,min=1900,max_current_year"`
	Website     string `validate:"omitempty,url"`

	PreferredCurrency string `validate:"currency_code"`
}

func TestCustomValidators(t *testing.T) {
	v := New()

	ok := settingsForm{
		Name:        "Acme Analytics",
		FullName:    "Jane O'Neil",
		Phone:       "+6281234567",
		YearFounded: time.Now().Year(),
		Website:     "https://acme.io",

		PreferredCurrency: "eur",
	}
	require.NoError(t, v.Struct(ok))

	tests := []struct {
		name   string
		mutate func(f *settingsForm)
		want   string
	}{
		{"emoji in name", func(f *settingsForm) { f.Name = "Acme 🚀" }, "Company name is shown on marketplace listings and cannot contain emoji or symbols"},
		{"symbols in full name", func(f *settingsForm) { f.FullName = "Jane <script>" }, "Full name may only contain letters, digits, spaces and . ' / & ( ) , -"},
		{"short phone", func(f *settingsForm) { f.Phone = "12345" }, "Phone number must be 7-15 digits with an optional leading +, no spaces"},
		{"future year", func(f *settingsForm) { f.YearFounded = time.Now().Year() + 1 }, "Year founded cannot be in the future"},
		{"bad url", func(f *settingsForm) { f.Website = "not a url" }, "Website must be a valid URL"},
		{"currency name instead of code", func(f *settingsForm) { f.PreferredCurrency = "euro" }, "Preferred currency must be a three letter currency code such as USD or EUR"},
		{"spaced phone", func(f *settingsForm) { f.Phone = "+62 812 3456 7890" }, "Phone number must be 7-15 digits with an optional leading +, no spaces"},
		{"missing name", func(f *settingsForm) { f.Name = "" }, "Company name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ok
			tt.mutate(&f)
			err := v.Struct(f)
			require.Error(t, err)
			assert.Equal(t, []string{tt.want}, FormatValidationErrors(err))
		})
	}
}

func TestFormatCamelCaseFallback(t *testing.T) {
	assert.Equal(t, "Some Unknown Field", getFieldLabel("SomeUnknownField"))
}
