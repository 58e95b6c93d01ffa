package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupported(t *testing.T) {
	langs := Supported()

	assert.Len(t, langs, 32)
	assert.Equal(t, Language{Code: "es", Name: "Spanish"}, langs[0])
	assert.Equal(t, Language{Code: "lt", Name: "Lithuanian"}, langs[len(langs)-1])

	// Mutating the returned slice must not touch the package list.
	langs[0].Name = "mutated"
	assert.Equal(t, "Spanish", Supported()[0].Name)
}

func TestNameFor(t *testing.T) {
	name, ok := NameFor("ja")
	assert.True(t, ok)
	assert.Equal(t, "Japanese", name)

	_, ok = NameFor("xx")
	assert.False(t, ok)
}
