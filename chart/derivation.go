package chart

import (
	"fmt"
	"strings"
)

// Derivation renders the derivation tree of an item in compact bracketed
// form, e.g.
//
//     (S (NP (Det the) (N dog)) (VP (V barks)))
//
// Lexical items print their entry name and yield, input items their
// surface form.
func Derivation(it Item) string {
	var sb strings.Builder
	printDerivation(&sb, it)
	return sb.String()
}

func printDerivation(sb *strings.Builder, it Item) {
	switch t := it.(type) {
	case *InputItem:
		sb.WriteString(t.Form())
	case *LexItem:
		fmt.Fprintf(sb, "(%s", t.PrintName())
		for _, d := range t.Daughters() {
			sb.WriteByte(' ')
			printDerivation(sb, d)
		}
		sb.WriteByte(')')
	case *PhrasalItem:
		fmt.Fprintf(sb, "(%s", t.PrintName())
		for _, d := range t.Daughters() {
			sb.WriteByte(' ')
			printDerivation(sb, d)
		}
		sb.WriteByte(')')
	}
}

// DerivationWithIDs renders the derivation including item ids, spans and
// scores, one node per line, in the style of the ts-database derivation
// format.
func DerivationWithIDs(it Item) string {
	var sb strings.Builder
	printIDs(&sb, it, 0)
	return sb.String()
}

func printIDs(sb *strings.Builder, it Item, indent int) {
	pad := strings.Repeat(" ", indent)
	switch t := it.(type) {
	case *InputItem:
		fmt.Fprintf(sb, "%s(%q %d %d)", pad, t.Form(), t.Start(), t.End())
	default:
		fmt.Fprintf(sb, "%s(%d %s %.2f %d %d", pad, t.ID(), t.PrintName(),
			t.Score(), t.Start(), t.End())
		if packed := t.Packed(); len(packed) > 0 {
			sb.WriteString(" {")
			for i, p := range packed {
				if i > 0 {
					sb.WriteByte(' ')
				}
				fmt.Fprintf(sb, "%d", p.ID())
			}
			sb.WriteByte('}')
		}
		for _, d := range t.Daughters() {
			sb.WriteByte('\n')
			printIDs(sb, d, indent+2)
		}
		sb.WriteByte(')')
	}
}

// Yield returns the surface string covered by an item.
func Yield(it Item) string {
	var words []string
	var walk func(Item)
	walk = func(x Item) {
		if in, ok := x.(*InputItem); ok {
			words = append(words, in.Form())
			return
		}
		for _, d := range x.Daughters() {
			walk(d)
		}
	}
	walk(it)
	return strings.Join(words, " ")
}
