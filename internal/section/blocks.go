package section

import (
	"strings"

	"github.com/sicxeasm/assembler/internal/ast"
)

// reorderBlocks implements §4.3 step 2: instructions are bucketed by
// their enclosing USE block (the unnamed default block to start), then
// concatenated in first-seen block order, with the terminating END
// moved to the tail. USE directives themselves are markers only and do
// not survive into the reordered sequence.
func (s *Section) reorderBlocks() {
	blockInstrs := make(map[string][]*ast.Instruction)
	var blockOrder []string
	seen := make(map[string]bool)
	var endInstr *ast.Instruction
	current := ""

	addBlock := func(name string) {
		if !seen[name] {
			seen[name] = true
			blockOrder = append(blockOrder, name)
		}
	}
	addBlock(current)

	for _, instr := range s.Instructions {
		switch instr.Mnemonic {
		case "END":
			endInstr = instr
			continue
		case "USE":
			current = strings.TrimSpace(instr.Operand)
			addBlock(current)
			continue
		}
		addBlock(current)
		blockInstrs[current] = append(blockInstrs[current], instr)
	}

	out := make([]*ast.Instruction, 0, len(s.Instructions))
	for _, name := range blockOrder {
		out = append(out, blockInstrs[name]...)
	}
	if endInstr != nil {
		out = append(out, endInstr)
	}

	s.reindex(out)
	s.Instructions = out
}
