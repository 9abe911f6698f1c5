package expr

import (
	"fmt"
)

// Limits enforced at compile time. Expressions exceeding either are
// rejected at first evaluation and treated as false.
const (
	MaxExprLen = 1024
	MaxDepth   = 32
)

// node is one AST node. The tree is immutable after Compile.
type node interface{ isNode() }

type litNode struct{ v Value }

type listNode struct{ elems []node }

// pathSeg is one segment of a dotted/bracketed path. Exactly one field set.
type pathSeg struct {
	ident string
	index node // bracket expression, evaluated to a string or number key
}

type pathNode struct{ segs []pathSeg }

type callNode struct {
	name string
	args []node
}

type unaryNode struct {
	op string // "-" or "not"
	x  node
}

type binNode struct {
	op   string
	lhs  node
	rhs  node
}

func (litNode) isNode()   {}
func (listNode) isNode()  {}
func (pathNode) isNode()  {}
func (callNode) isNode()  {}
func (unaryNode) isNode() {}
func (binNode) isNode()   {}

// Program is a compiled expression ready for repeated evaluation.
type Program struct {
	Src  string
	root node
}

// Compile parses src into a Program. Length and nesting limits are
// enforced here so evaluation itself can never blow the stack.
func Compile(src string) (*Program, error) {
	if len(src) > MaxExprLen {
		return nil, fmt.Errorf("expression exceeds %d bytes", MaxExprLen)
	}
	p := &parser{lx: lexer{src: src}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q at offset %d", p.cur.text, p.cur.pos)
	}
	return &Program{Src: src, root: root}, nil
}

type parser struct {
	lx    lexer
	cur   token
	depth int
}

func (p *parser) advance() error {
	t, err := p.lx.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > MaxDepth {
		return fmt.Errorf("expression nesting exceeds depth %d", MaxDepth)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) parseOr() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = binNode{op: "or", lhs: lhs, rhs: rhs}
	}
	return lhs, nil
}

func (p *parser) parseAnd() (node, error) {
	lhs, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("and") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		lhs = binNode{op: "and", lhs: lhs, rhs: rhs}
	}
	return lhs, nil
}

func (p *parser) parseNot() (node, error) {
	if p.isKeyword("not") {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: "not", x: x}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

func (p *parser) parseComparison() (node, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	// Single comparison, not chained.
	if p.cur.kind == tokOp && comparisonOps[p.cur.text] || p.isKeyword("in") {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return binNode{op: op, lhs: lhs, rhs: rhs}, nil
	}
	return lhs, nil
}

func (p *parser) parseAdditive() (node, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOp && (p.cur.text == "+" || p.cur.text == "-") {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs = binNode{op: op, lhs: lhs, rhs: rhs}
	}
	return lhs, nil
}

func (p *parser) parseMultiplicative() (node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOp && (p.cur.text == "*" || p.cur.text == "/") {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = binNode{op: op, lhs: lhs, rhs: rhs}
	}
	return lhs, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.cur.kind == tokOp && p.cur.text == "-" {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: "-", x: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch {
	case p.cur.kind == tokNumber:
		n := litNode{v: NumVal(p.cur.num)}
		return n, p.advance()

	case p.cur.kind == tokString:
		n := litNode{v: StrVal(p.cur.text)}
		return n, p.advance()

	case p.cur.kind == tokIdent && p.cur.text == "true":
		return litNode{v: True}, p.advance()

	case p.cur.kind == tokIdent && p.cur.text == "false":
		return litNode{v: False}, p.advance()

	case p.cur.kind == tokIdent && p.cur.text == "null":
		return litNode{v: Null}, p.advance()

	case p.cur.kind == tokIdent:
		return p.parsePathOrCall()

	case p.cur.kind == tokOp && p.cur.text == "(":
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.isOp(")") {
			return nil, fmt.Errorf("expected ) at offset %d", p.cur.pos)
		}
		return inner, p.advance()

	case p.cur.kind == tokOp && p.cur.text == "[":
		return p.parseList()
	}
	return nil, fmt.Errorf("unexpected %q at offset %d", p.cur.text, p.cur.pos)
}

func (p *parser) parseList() (node, error) {
	if err := p.advance(); err != nil { // consume [
		return nil, err
	}
	var elems []node
	if p.isOp("]") {
		return listNode{}, p.advance()
	}
	for {
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.isOp(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if !p.isOp("]") {
		return nil, fmt.Errorf("expected ] at offset %d", p.cur.pos)
	}
	return listNode{elems: elems}, p.advance()
}

// parsePathOrCall parses an identifier head followed by either a call
// argument list or dotted/bracketed path segments.
func (p *parser) parsePathOrCall() (node, error) {
	head := p.cur.text
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.isOp("(") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var args []node
		if !p.isOp(")") {
			for {
				a, err := p.parseOr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.isOp(",") {
					if err := p.advance(); err != nil {
						return nil, err
					}
					continue
				}
				break
			}
		}
		if !p.isOp(")") {
			return nil, fmt.Errorf("expected ) at offset %d", p.cur.pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return callNode{name: head, args: args}, nil
	}

	segs := []pathSeg{{ident: head}}
	for {
		switch {
		case p.isOp("."):
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind != tokIdent {
				return nil, fmt.Errorf("expected identifier after '.' at offset %d", p.cur.pos)
			}
			segs = append(segs, pathSeg{ident: p.cur.text})
			if err := p.advance(); err != nil {
				return nil, err
			}
		case p.isOp("["):
			if err := p.advance(); err != nil {
				return nil, err
			}
			idx, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			if !p.isOp("]") {
				return nil, fmt.Errorf("expected ] at offset %d", p.cur.pos)
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			segs = append(segs, pathSeg{index: idx})
		default:
			return pathNode{segs: segs}, nil
		}
	}
}

func (p *parser) isOp(s string) bool {
	return p.cur.kind == tokOp && p.cur.text == s
}

func (p *parser) isKeyword(s string) bool {
	return p.cur.kind == tokIdent && p.cur.text == s
}
