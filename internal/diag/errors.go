// Package diag holds the error and diagnostic types shared across the
// assembler's packages: source positions, typed errors, the non-fatal
// warning list the preprocessor fills for recoverable problems, and the
// diagnostic Event/Sink callback types.
package diag

import (
	"fmt"
	"strings"
)

// Position identifies a source line the preprocessor produced an
// instruction from.
type Position struct {
	Filename string
	Line     int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

// Kind categorizes an assembler error, matching the error kinds in §7
// of the specification.
type Kind int

const (
	KindFileNotFound Kind = iota
	KindInvalidMnemonic
	KindInvalidLiteralFormat
	KindInvalidByteConstant
	KindNegativeReservation
	KindDisplacementOutOfRange
	KindDuplicateEnd
	KindMissingEnd
	KindUndefinedExternalDefinition
	KindMissingSymbol
	KindSyntax
)

var kindNames = map[Kind]string{
	KindFileNotFound:                "FileNotFound",
	KindInvalidMnemonic:             "InvalidMnemonic",
	KindInvalidLiteralFormat:        "InvalidLiteralFormat",
	KindInvalidByteConstant:         "InvalidByteConstant",
	KindNegativeReservation:         "NegativeReservation",
	KindDisplacementOutOfRange:      "DisplacementOutOfRange",
	KindDuplicateEnd:                "DuplicateEnd",
	KindMissingEnd:                  "MissingEnd",
	KindUndefinedExternalDefinition: "UndefinedExternalDefinition",
	KindMissingSymbol:               "MissingSymbol",
	KindSyntax:                      "Syntax",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a fatal assembly error with source-location context.
type Error struct {
	Pos     Position
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}

// NewError creates an Error of the given kind at pos.
func NewError(pos Position, kind Kind, message string) *Error {
	return &Error{Pos: pos, Kind: kind, Message: message}
}

// Warning is a recoverable problem; it never aborts assembly. The
// preprocessor records one for each section it gives a synthesized END.
// Renamed symbols are reported only through a Sink, not as a Warning.
type Warning struct {
	Pos     Position
	Message string
}

func (w *Warning) String() string {
	return fmt.Sprintf("%s: warning: %s", w.Pos, w.Message)
}

// List collects the warnings accumulated during one assembly run.
type List struct {
	Warnings []*Warning
}

// Add appends a warning.
func (l *List) Add(pos Position, message string) {
	l.Warnings = append(l.Warnings, &Warning{Pos: pos, Message: message})
}

// HasWarnings reports whether any warnings were collected.
func (l *List) HasWarnings() bool {
	return len(l.Warnings) > 0
}

func (l *List) String() string {
	var sb strings.Builder
	for _, w := range l.Warnings {
		sb.WriteString(w.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// EventKind identifies which internal table a DiagnosticEvent reports.
type EventKind int

const (
	EventSymbolTable EventKind = iota
	EventExtdefTable
	EventExtrefTable
	EventLiteralTable
	EventModificationRecords
	EventInstructionListing
)

var eventKindNames = map[EventKind]string{
	EventSymbolTable:         "SymbolTable",
	EventExtdefTable:         "ExtdefTable",
	EventExtrefTable:         "ExtrefTable",
	EventLiteralTable:        "LiteralTable",
	EventModificationRecords: "ModificationRecords",
	EventInstructionListing:  "InstructionListing",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a human-readable table dump handed to an optional
// diagnostic callback. The core packages never print; they only ever
// build and emit Events, so a caller (CLI, TUI, test) decides what to
// do with them.
type Event struct {
	Kind    EventKind
	Section string
	Rows    []string
}

// Sink receives diagnostic Events as assembly proceeds. A nil Sink is
// always valid and simply means "produce no diagnostics".
type Sink func(Event)
