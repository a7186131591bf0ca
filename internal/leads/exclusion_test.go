package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExclusionSet(t *testing.T) {
	set := NewExclusionSet([]string{" Acme ", "", "Globex", "Globex"})

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("Acme"))
	assert.True(t, set.Contains("Globex"))
	assert.False(t, set.Contains("acme"))
	assert.False(t, set.Contains("Initech"))
}

func TestExclusionSet_Empty(t *testing.T) {
	set := NewExclusionSet(nil)
	assert.Zero(t, set.Len())
	assert.False(t, set.Contains(""))
}
