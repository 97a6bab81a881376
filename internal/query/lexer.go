package query

type tokenKind int

const (
	tEOF tokenKind = iota
	tSlash
	tAt
	tColon
	tLBracket
	tRBracket
	tLParen
	tRParen
	tComma
	tEquals
	tPlus
	tMinus
	tIdent
)

type token struct {
	kind tokenKind
	text string
}

type lexer struct {
	input string
	pos   int
}

func newLexer(s string) *lexer { return &lexer{input: s} }

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t') {
		l.pos++
	}
}

func isIdentRune(b byte) bool {
	return b == '_' || b == '.' || b == '*' || b == '?' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// next returns the next token, or a tEOF token once input is exhausted.
func (l *lexer) next() token {
	l.skipSpace()
	if l.pos >= len(l.input) {
		return token{kind: tEOF}
	}
	c := l.input[l.pos]
	single := map[byte]tokenKind{
		'/': tSlash, '@': tAt, ':': tColon, '[': tLBracket, ']': tRBracket,
		'(': tLParen, ')': tRParen, ',': tComma, '=': tEquals, '+': tPlus, '-': tMinus,
	}
	if kind, ok := single[c]; ok {
		l.pos++
		return token{kind: kind, text: string(c)}
	}
	start := l.pos
	for l.pos < len(l.input) && isIdentRune(l.input[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		l.pos++ // unknown rune; skip it rather than loop forever
		return l.next()
	}
	return token{kind: tIdent, text: l.input[start:l.pos]}
}

func tokenize(s string) []token {
	l := newLexer(s)
	var toks []token
	for {
		t := l.next()
		if t.kind == tEOF {
			break
		}
		toks = append(toks, t)
	}
	return toks
}
