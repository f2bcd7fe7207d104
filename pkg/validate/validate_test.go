package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `json:"name" validate:"required,notblank,max=5"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestStruct(t *testing.T) {
	v := New()

	assert.Empty(t, v.Struct(&sample{Name: "ok"}))
	assert.Equal(t, "name is required", v.Struct(&sample{}))
	assert.Equal(t, "name is required", v.Struct(&sample{Name: "   "}))
	assert.Equal(t, "name must be at most 5 characters", v.Struct(&sample{Name: "toolong"}))
	assert.Equal(t, "email must be a valid email address", v.Struct(&sample{Name: "ok", Email: "nope"}))
}
