package query

import (
	"fmt"
	"strconv"
)

// URL is a parsed query: either absolute (Context nil) or rooted at a
// focus context, followed by zero or more edge traversals.
type URL struct {
	Context  *ContextRef
	Segments []Segment
}

// ContextRef is the `@context('+'|'-' N)?` relative root.
type ContextRef struct {
	Name   string
	Offset int
}

type selectorKind int

const (
	selKey selectorKind = iota
	selIndex
	selFilter
)

// Segment is one `/edgeName selector*` path element.
type Segment struct {
	Edge      string
	Selectors []Selector
}

// Selector narrows the set yielded by a Segment's edge traversal.
type Selector struct {
	Kind    selectorKind
	Key     string
	Index   int
	Filters []Filter
}

// Filter is one `prop=value` clause inside a `(...)` selector.
type Filter struct {
	Prop  string
	Value string
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	if p.pos >= len(p.toks) {
		return token{kind: tEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// Parse compiles a query string into a URL AST.
func Parse(s string) (*URL, error) {
	p := &parser{toks: tokenize(s)}
	u := &URL{}

	switch p.peek().kind {
	case tSlash:
		p.next()
	case tAt:
		p.next()
		ctx, err := p.parseContext()
		if err != nil {
			return nil, err
		}
		u.Context = ctx
	default:
		return nil, fmt.Errorf("query: expected '/' or '@', got %q", p.peek().text)
	}

	for p.peek().kind == tSlash {
		seg, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		u.Segments = append(u.Segments, seg)
	}
	if p.peek().kind != tEOF {
		return nil, fmt.Errorf("query: unexpected trailing input %q", p.peek().text)
	}
	return u, nil
}

func (p *parser) parseContext() (*ContextRef, error) {
	nameTok := p.next()
	if nameTok.kind != tIdent {
		return nil, fmt.Errorf("query: expected context name")
	}
	ref := &ContextRef{Name: nameTok.text}
	switch p.peek().kind {
	case tPlus, tMinus:
		sign := 1
		if p.peek().kind == tMinus {
			sign = -1
		}
		p.next()
		numTok := p.next()
		n, err := strconv.Atoi(numTok.text)
		if err != nil {
			return nil, fmt.Errorf("query: invalid offset %q", numTok.text)
		}
		ref.Offset = sign * n
	}
	return ref, nil
}

func (p *parser) parseSegment() (Segment, error) {
	p.next() // '/'
	nameTok := p.next()
	if nameTok.kind != tIdent {
		return Segment{}, fmt.Errorf("query: expected edge name")
	}
	seg := Segment{Edge: nameTok.text}
	for {
		switch p.peek().kind {
		case tColon:
			p.next()
			key := p.next().text
			// Keys such as uuids contain '-', which the lexer emits as its
			// own token; rejoin the pieces.
			for p.peek().kind == tMinus {
				p.next()
				key += "-" + p.next().text
			}
			seg.Selectors = append(seg.Selectors, Selector{Kind: selKey, Key: key})
		case tLBracket:
			p.next()
			idxTok := p.next()
			n, err := strconv.Atoi(idxTok.text)
			if err != nil {
				return Segment{}, fmt.Errorf("query: invalid index %q", idxTok.text)
			}
			if p.peek().kind != tRBracket {
				return Segment{}, fmt.Errorf("query: expected ']'")
			}
			p.next()
			seg.Selectors = append(seg.Selectors, Selector{Kind: selIndex, Index: n})
		case tLParen:
			p.next()
			var filters []Filter
			for {
				propTok := p.next()
				if propTok.kind != tIdent {
					return Segment{}, fmt.Errorf("query: expected property name")
				}
				if p.peek().kind != tEquals {
					return Segment{}, fmt.Errorf("query: expected '='")
				}
				p.next()
				valTok := p.next()
				filters = append(filters, Filter{Prop: propTok.text, Value: valTok.text})
				if p.peek().kind == tComma {
					p.next()
					continue
				}
				break
			}
			if p.peek().kind != tRParen {
				return Segment{}, fmt.Errorf("query: expected ')'")
			}
			p.next()
			seg.Selectors = append(seg.Selectors, Selector{Kind: selFilter, Filters: filters})
		default:
			return seg, nil
		}
	}
}
