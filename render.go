package main

import (
	"fmt"
	"strings"
)

// renderOperation converts one classified operation into the migration-DSL
// text for it. The result may span multiple lines; the assembler handles
// indentation. Unclassified statements render as an execute block carrying
// the original text unmodified, so nothing in the plan is ever lost.
func renderOperation(op ClassifiedOperation, types TypeMap) string {
	switch op.Kind {
	case OpCreateTable:
		// The supported statement shape carries no column list, so only the
		// block opener is rendered; ADD COLUMN statements follow in the plan.
		return fmt.Sprintf("create_table :%s do |t|\nend", op.Table)
	case OpDropTable:
		return fmt.Sprintf("drop_table :%s", op.Table)
	case OpAddColumn:
		return renderAddColumn(op, types)
	case OpDropColumn:
		return fmt.Sprintf("remove_column :%s, :%s", op.Table, op.Column)
	case OpCreateIndex:
		line := fmt.Sprintf("add_index :%s, :%s, name: :%s", op.Table, op.Column, op.Index)
		if op.Unique {
			line += ", unique: true"
		}
		return line
	case OpDropIndex:
		return fmt.Sprintf("remove_index name: :%s", op.Index)
	default:
		return renderVerbatim(op.Raw)
	}
}

func renderAddColumn(op ClassifiedOperation, types TypeMap) string {
	target, known := types.resolve(op.Type)

	slot := target.slot
	if !known {
		// Best-effort for pass-through types: infer the slot from the
		// parameter count so numeric parameters are never dropped.
		switch len(op.Type.Params) {
		case 1:
			slot = slotLimit
		case 2:
			slot = slotPrecisionScale
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "add_column :%s, :%s, :%s", op.Table, op.Column, target.token)
	switch {
	case slot == slotLimit && len(op.Type.Params) >= 1:
		fmt.Fprintf(&b, ", limit: %d", op.Type.Params[0])
	case slot == slotPrecisionScale && len(op.Type.Params) >= 2:
		fmt.Fprintf(&b, ", precision: %d, scale: %d", op.Type.Params[0], op.Type.Params[1])
	case slot == slotPrecisionScale && len(op.Type.Params) == 1:
		fmt.Fprintf(&b, ", precision: %d", op.Type.Params[0])
	}
	return b.String()
}

// renderVerbatim wraps an unclassified statement so the migration runner
// executes the original text directly.
func renderVerbatim(raw RawStatement) string {
	return fmt.Sprintf("execute <<-SQL\n  %s\nSQL", raw.Text)
}
