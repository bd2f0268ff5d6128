package binder

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()

	validate := validator.New()
	require.NoError(t, validate.RegisterValidation("date", dateValidator))
	require.NoError(t, validate.RegisterValidation("month", monthValidator))
	return validate
}

func TestDateValidator(t *testing.T) {
	t.Parallel()

	validate := newValidate(t)

	type payload struct {
		Date string `validate:"date"`
	}

	valid := []string{"", "2026-01-01", "2026-12-31", "1999-06-15"}
	for _, v := range valid {
		assert.NoError(t, validate.Struct(payload{Date: v}), "value=%q", v)
	}

	invalid := []string{"2026-13-01", "2026-01-32", "01-01-2026", "2026/01/01", "20260101", "not-a-date"}
	for _, v := range invalid {
		assert.Error(t, validate.Struct(payload{Date: v}), "value=%q", v)
	}
}

func TestMonthValidator(t *testing.T) {
	t.Parallel()

	validate := newValidate(t)

	type payload struct {
		Month string `validate:"month"`
	}

	valid := []string{"", "2026-01", "2026-12", "1999-06"}
	for _, v := range valid {
		assert.NoError(t, validate.Struct(payload{Month: v}), "value=%q", v)
	}

	invalid := []string{"2026-13", "2026", "2026-1", "01-2026", "2026/01"}
	for _, v := range invalid {
		assert.Error(t, validate.Struct(payload{Month: v}), "value=%q", v)
	}
}
