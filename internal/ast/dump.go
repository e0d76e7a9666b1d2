package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented outline of the subtree rooted at id.
func (t *Tree) Dump(w io.Writer, id NodeID) error {
	return t.dump(w, id, 0)
}

func (t *Tree) dump(w io.Writer, id NodeID, depth int) error {
	n := t.Get(id)
	if n == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s%s%s #%d\n", strings.Repeat("  ", depth), n.Kind, t.label(id), id); err != nil {
		return err
	}
	for _, c := range t.Children(id) {
		if err := t.dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) label(id NodeID) string {
	switch t.Kind(id) {
	case KindDeclarator:
		d, _ := t.Declarator(id)
		return " " + d.Name
	case KindFuncDecl:
		d, _ := t.FuncDecl(id)
		return " " + d.Name
	case KindParam:
		d, _ := t.Param(id)
		return " " + d.Name
	case KindClassDecl:
		d, _ := t.ClassDecl(id)
		return " " + d.Name
	case KindIdent:
		d, _ := t.Ident(id)
		return " " + d.Name
	case KindLiteral:
		d, _ := t.Literal(id)
		if d.Kind == LitString {
			return fmt.Sprintf(" %s %q", d.Kind, d.Value)
		}
		return fmt.Sprintf(" %s %s", d.Kind, d.Value)
	case KindBinary:
		d, _ := t.Binary(id)
		return " " + d.Op.String()
	case KindUnary, KindPostfix:
		d, _ := t.Unary(id)
		return " " + d.Op.String()
	case KindCall:
		d, _ := t.Call(id)
		switch d.Target {
		case CallThis:
			return " this"
		case CallSuper:
			return " super"
		}
		return " " + d.Name
	case KindSelector:
		d, _ := t.Selector(id)
		return " ." + d.Name
	case KindTypePrimitive:
		d, _ := t.TypeRef(id)
		return " " + d.Prim.String()
	case KindTypeName:
		d, _ := t.TypeRef(id)
		return " " + d.Name
	}
	return ""
}
