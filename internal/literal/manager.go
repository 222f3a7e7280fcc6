// Package literal implements the per-section literal pool: interning
// `=C'...'`/`=X'...'` operands in insertion order and handing back the
// synthetic name the section engine substitutes into the operand.
package literal

import "fmt"

// Manager interns literal operands for one section. Re-interning an
// already-seen literal value returns the same name and bumps its use
// count; clearing the table archives the current pool (for
// diagnostics) and starts a fresh one.
type Manager struct {
	pool     []*Entry
	byValue  map[string]*Entry
	nextNum  uint32
	archived []*Entry
}

// Entry is one interned literal.
type Entry struct {
	Name      string
	Data      string
	UsedCount uint32
}

// NewManager creates an empty literal manager. Numbering starts at 1
// and is never reset for the life of the manager, even across Clear.
func NewManager() *Manager {
	return &Manager{
		byValue: make(map[string]*Entry),
		nextNum: 1,
	}
}

// Add interns operand (which must begin with '=') and returns its
// literal name, e.g. "literal3". Re-interning the same operand text
// increments UsedCount and returns the existing name.
func (m *Manager) Add(operand string) string {
	if e, ok := m.byValue[operand]; ok {
		e.UsedCount++
		return e.Name
	}

	name := fmt.Sprintf("literal%d", m.nextNum)
	m.nextNum++

	e := &Entry{
		Name:      name,
		Data:      operand[1:], // strip leading '='
		UsedCount: 1,
	}
	m.pool = append(m.pool, e)
	m.byValue[operand] = e
	return name
}

// Pending returns the literals interned since the last Clear, in
// insertion order.
func (m *Manager) Pending() []*Entry {
	return m.pool
}

// Archived returns every literal ever cleared from the active pool,
// for post-assembly diagnostics (the original's LITTAB dump).
func (m *Manager) Archived() []*Entry {
	return m.archived
}

// Clear moves the active pool into the archive and resets it. Called
// at LTORG and END once their synthetic BYTE instructions have been
// emitted.
func (m *Manager) Clear() {
	m.archived = append(m.archived, m.pool...)
	m.pool = nil
	m.byValue = make(map[string]*Entry)
}
