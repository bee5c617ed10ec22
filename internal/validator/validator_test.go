package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Folder string `yaml:"folder" validate:"required"`
	Driver string `json:"driver" validate:"oneof=mongo postgres"`
	Port   int    `form:"port" validate:"min=1,max=65535"`
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, New().Validate(&sample{Folder: "uploads", Driver: "mongo", Port: 5000}))
}

func TestValidateUsesTagNames(t *testing.T) {
	err := New().Validate(&sample{Driver: "redis", Port: 0})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"sample.folder": "This field is required",
		"sample.driver": "Must be one of: mongo, postgres",
		"sample.port":   "Must be at least 1",
	}, vErr.Errors)
	assert.Contains(t, vErr.Error(), "field 'sample.driver'")
}
