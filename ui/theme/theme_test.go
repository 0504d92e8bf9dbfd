package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNames(t *testing.T) {
	t.Parallel()

	names := Names()
	assert.Len(t, names, 7)
	assert.Contains(t, names, DefaultName)
	assert.IsIncreasing(t, names)
}

func TestByName(t *testing.T) {
	t.Parallel()

	nord, ok := ByName("nord")
	assert.True(t, ok)
	assert.Equal(t, "nord", nord.Name)
	assert.Equal(t, palettes["nord"], nord.Palette)

	fallback, ok := ByName("solarized")
	assert.False(t, ok)
	assert.Equal(t, DefaultName, fallback.Name)
}
