package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name    string `json:"name" validate:"not_blank"`
	Email   string `json:"email" validate:"not_blank,contact_email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"not_blank"`
}

func TestIsContactEmail(t *testing.T) {
	valid := []string{"a@b.c", "jane.doe+tag@mail.example.org", "x@y.z.w"}
	invalid := []string{
		"abc", "a@b", "@b.c", "a@.c", "a b@c.d", "a@@b.c", " a@b.c", "a@b.c ",
		"a\u00a0b@c.d", "a@b\u2003c.d", "a@b.c\u2028", "\ufeffa@b.c", "a\vb@c.d",
	}

	for _, e := range valid {
		assert.True(t, IsContactEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, IsContactEmail(e), e)
	}
}

func TestFieldMessages(t *testing.T) {
	v := New()

	t.Run("all required fields blank", func(t *testing.T) {
		err := v.Struct(sample{Name: " ", Email: "\t", Message: ""})
		assert.Equal(t, map[string]string{
			"name":    "Name is required",
			"email":   "Email is required",
			"message": "Message is required",
		}, FieldMessages(err))
	})

	t.Run("unicode whitespace is blank", func(t *testing.T) {
		err := v.Struct(sample{Name: "\ufeff", Email: "a@b.c", Message: "\u2003"})
		assert.Equal(t, map[string]string{
			"name":    "Name is required",
			"message": "Message is required",
		}, FieldMessages(err))
	})

	t.Run("bad email shape only", func(t *testing.T) {
		err := v.Struct(sample{Name: "a", Email: "a@b", Message: "m"})
		assert.Equal(t, map[string]string{"email": "Please enter a valid email"}, FieldMessages(err))
	})

	t.Run("subject never validated", func(t *testing.T) {
		assert.NoError(t, v.Struct(sample{Name: "a", Email: "a@b.c", Message: "m"}))
	})

	t.Run("nil and foreign errors", func(t *testing.T) {
		assert.Empty(t, FieldMessages(nil))
		assert.Equal(t, map[string]string{"_": "boom"}, FieldMessages(errors.New("boom")))
	})
}
