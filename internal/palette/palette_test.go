package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(0))
	assert.Equal(t, 1, Clamp(-7))
	assert.Equal(t, 25, Clamp(26))
	assert.Equal(t, 17, Clamp(17))
}

func TestLookupClampsOutOfRange(t *testing.T) {
	assert.Equal(t, "Golden Eagle", Eye(0).Name)
	assert.Equal(t, "Steel Blue", Eye(26).Name)
	assert.Equal(t, Band(25), Band(99))
	assert.Equal(t, rgb(0, 0, 255), Band(1)[0])
}

func TestValid(t *testing.T) {
	assert.False(t, Valid(0))
	assert.True(t, Valid(1))
	assert.True(t, Valid(25))
	assert.False(t, Valid(26))
}

func TestScale(t *testing.T) {
	c := rgb(200, 100, 50)
	assert.Equal(t, Black, Scale(c, 0))
	assert.Equal(t, c, Scale(c, 1))
	assert.Equal(t, rgb(100, 50, 25), Scale(c, 0.5))
	assert.Equal(t, c, Scale(c, 3))
}
