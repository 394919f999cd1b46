package services

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/hrportal/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@x.com", "first.last+tag@sub.example.org"}
	invalid := []string{"", "plain", "a@", "@x.com", "a@localhost", "a@x.", "a@.x", "A <a@x.com>", strings.Repeat("a", 250) + "@x.com"}

	for _, e := range valid {
		assert.NoError(t, validateEmail(e), e)
	}
	for _, e := range invalid {
		assert.ErrorIs(t, validateEmail(e), common.ErrValidation, e)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, validatePassword("12345678"))
	assert.NoError(t, validatePassword(strings.Repeat("x", 72)))
	assert.ErrorIs(t, validatePassword("1234567"), common.ErrValidation)
	assert.ErrorIs(t, validatePassword(strings.Repeat("x", 73)), common.ErrValidation)
	assert.ErrorIs(t, validatePassword("abcdefg\xff"), common.ErrValidation)

	err := validatePassword("short")
	assert.Contains(t, err.Error(), "at least 8")
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, validateName("Ann"))
	assert.NoError(t, validateName(strings.Repeat("ж", 100)))
	assert.ErrorIs(t, validateName(""), common.ErrValidation)
	assert.ErrorIs(t, validateName(strings.Repeat("ж", 101)), common.ErrValidation)
}
