package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"full_name" validate:"required"`
	Key   string `json:"access_key" validate:"omitempty,digits6"`
}

func TestFailed_Digits6(t *testing.T) {
	assert.Empty(t, Failed(sample{Email: "a@b.ph", Name: "Ana", Key: "012345"}, "digits6"))
	assert.Equal(t, []string{"access_key"}, Failed(sample{Email: "a@b.ph", Name: "Ana", Key: "12a456"}, "digits6"))
	assert.Equal(t, []string{"access_key"}, Failed(sample{Key: "1234567"}, "digits6"))
}

func TestFailed_ReportsJSONNames(t *testing.T) {
	assert.Equal(t, []string{"email"}, Failed(sample{Email: "not-an-email", Name: "Ana"}, "email"))
}

func TestMissing(t *testing.T) {
	assert.Equal(t, []string{"email", "full_name"}, Missing(sample{}))
	assert.Empty(t, Missing(sample{Email: "bad", Name: "x"}))
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("000000", 6))
	assert.False(t, IsDigits("٠١٢٣٤٥", 6))
	assert.False(t, IsDigits("", 6))
}
