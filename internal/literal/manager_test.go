package literal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerAdd(t *testing.T) {
	m := NewManager()

	name1 := m.Add("=C'EOF'")
	assert.Equal(t, "literal1", name1)

	name2 := m.Add("=X'0A'")
	assert.Equal(t, "literal2", name2)

	// Re-interning the same value returns the same name and bumps
	// UsedCount rather than allocating a new entry.
	name1Again := m.Add("=C'EOF'")
	assert.Equal(t, name1, name1Again)

	pending := m.Pending()
	assert.Len(t, pending, 2)
	assert.Equal(t, "C'EOF'", pending[0].Data)
	assert.Equal(t, uint32(2), pending[0].UsedCount)
}

func TestManagerClear(t *testing.T) {
	m := NewManager()
	m.Add("=C'A'")
	m.Add("=C'B'")

	m.Clear()
	assert.Empty(t, m.Pending())
	assert.Len(t, m.Archived(), 2)

	// Numbering never resets, even across Clear.
	name := m.Add("=C'C'")
	assert.Equal(t, "literal3", name)
}
