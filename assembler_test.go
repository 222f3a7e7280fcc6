package assembler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sicxeasm/assembler/internal/config"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestAssembleMinimalProgram exercises end-to-end scenario 1 from the
// testable-properties list: a three-instruction program assembles to
// an H record naming COPY at 001000, a single T record, and an E
// record pointing back at COPY's own address.
func TestAssembleMinimalProgram(t *testing.T) {
	src := writeSource(t, "copy.asm", "COPY START 1000\n LDA ZERO\nZERO WORD 0\n END COPY\n")
	out := filepath.Join(t.TempDir(), "copy.obj")

	result, err := Assemble(src, out, config.Default(), nil)
	require.NoError(t, err)
	require.Len(t, result.Sections, 1)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "HCOPY  001000000006\n"))
	assert.Contains(t, text, "T00100006032000000000\n")
	assert.Contains(t, text, "E001000")
}

// TestAssembleMultiSectionExternalReference exercises end-to-end
// scenario 6: Section A exposes BUFFER via EXTDEF, Section B refers to
// it with a Format 4 +LDA through EXTREF and gets a modification
// record at the instruction's location+1.
func TestAssembleMultiSectionExternalReference(t *testing.T) {
	src := writeSource(t, "multi.asm",
		"A START 0\n"+
			" EXTDEF BUFFER\n"+
			"BUFFER RESB 4096\n"+
			"B CSECT\n"+
			" EXTREF BUFFER\n"+
			"+LDA BUFFER\n"+
			" END A\n")
	out := filepath.Join(t.TempDir(), "multi.obj")

	opts := config.Default()
	opts.Assembler.ExtendedMode = true

	result, err := Assemble(src, out, opts, nil)
	require.NoError(t, err)
	require.Len(t, result.Sections, 2)

	secA, secB := result.Sections[0], result.Sections[1]
	assert.Contains(t, secA.ExtdefTable, "BUFFER")

	assert.Contains(t, secB.ExtrefTable, "BUFFER")
	require.Len(t, secB.ModificationRecords, 1)
	rec := secB.ModificationRecords[0]
	assert.Equal(t, byte('+'), rec.Sign)
	assert.Equal(t, "BUFFER", rec.Reference)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "DBUFFER")
	assert.Contains(t, text, "RBUFFER")
}
