package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	t.Run("known opcode", func(t *testing.T) {
		entry, ok := Lookup("LDA")
		assert.True(t, ok)
		assert.Equal(t, "00", entry.Obj)
		assert.Equal(t, 3, entry.Format)
	})

	t.Run("unknown mnemonic", func(t *testing.T) {
		_, ok := Lookup("NOPE")
		assert.False(t, ok)
	})

	t.Run("format 2 opcode", func(t *testing.T) {
		entry, ok := Lookup("CLEAR")
		assert.True(t, ok)
		assert.Equal(t, 2, entry.Format)
	})
}

func TestIsKnownMnemonic(t *testing.T) {
	assert.True(t, IsKnownMnemonic("LDA"))
	assert.True(t, IsKnownMnemonic("START"))
	assert.False(t, IsKnownMnemonic("BOGUS"))
}

func TestLookupRegister(t *testing.T) {
	code, ok := LookupRegister("A")
	assert.True(t, ok)
	assert.Equal(t, "0", code)

	_, ok = LookupRegister("Z")
	assert.False(t, ok)
}
