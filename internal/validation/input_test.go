package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateLength_Runes(t *testing.T) {
	// Длина считается в рунах, кириллица не должна удваиваться.
	assert.NoError(t, ValidateLength("заголовок", "Вёрстка", MinJobTitleLength, MaxJobTitleLength))
	assert.Error(t, ValidateLength("заголовок", "аб", MinJobTitleLength, MaxJobTitleLength))
	assert.Error(t, ValidateLength("заголовок", strings.Repeat("я", MaxJobTitleLength+1), MinJobTitleLength, MaxJobTitleLength))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("a@b@c.com"))
	assert.Error(t, ValidateEmail("user@localhost"))
}

func TestValidateBudget(t *testing.T) {
	assert.NoError(t, ValidateBudget(decimal.NewFromInt(1)))
	assert.NoError(t, ValidateBudget(MaxBudget))
	assert.Error(t, ValidateBudget(decimal.Zero))
	assert.Error(t, ValidateBudget(decimal.NewFromInt(-100)))
	assert.Error(t, ValidateBudget(MaxBudget.Add(decimal.NewFromInt(1))))
}

func TestValidateRating(t *testing.T) {
	for rating := MinRating; rating <= MaxRating; rating++ {
		assert.NoError(t, ValidateRating(rating))
	}
	assert.Error(t, ValidateRating(0))
	assert.Error(t, ValidateRating(6))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Str0ngPass"))
	assert.Error(t, ValidatePassword("Sh0rt"))
	assert.Error(t, ValidatePassword("alllowercase1"))
	assert.Error(t, ValidatePassword("ALLUPPERCASE1"))
	assert.Error(t, ValidatePassword("NoDigitsHere"))
}
