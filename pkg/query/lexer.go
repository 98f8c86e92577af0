package query

import "fmt"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokIdent
	tokString
	tokAssign   // =
	tokPipe     // |
	tokComma    // ,
	tokLBracket // [
	tokRBracket // ]
	tokLParen   // (
	tokRParen   // )
	tokUnaryOp  // - + ! ~
)

type token struct {
	kind tokenKind
	text string
	line int
}

// lexer produces tokens from query source. '#' starts a line comment;
// newlines and semicolons terminate statements.
type lexer struct {
	src  string
	pos  int
	line int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1}
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '\n' || c == ';':
			tok := token{kind: tokNewline, line: l.line}
			if c == '\n' {
				l.line++
			}
			l.pos++
			return tok, nil
		case c == '=':
			l.pos++
			return token{kind: tokAssign, text: "=", line: l.line}, nil
		case c == '|':
			l.pos++
			return token{kind: tokPipe, text: "|", line: l.line}, nil
		case c == ',':
			l.pos++
			return token{kind: tokComma, text: ",", line: l.line}, nil
		case c == '[':
			l.pos++
			return token{kind: tokLBracket, text: "[", line: l.line}, nil
		case c == ']':
			l.pos++
			return token{kind: tokRBracket, text: "]", line: l.line}, nil
		case c == '(':
			l.pos++
			return token{kind: tokLParen, text: "(", line: l.line}, nil
		case c == ')':
			l.pos++
			return token{kind: tokRParen, text: ")", line: l.line}, nil
		case c == '-' || c == '+' || c == '!' || c == '~':
			l.pos++
			return token{kind: tokUnaryOp, text: string(c), line: l.line}, nil
		case c == '"' || c == '\'':
			return l.lexString(c)
		case isIdentStart(c):
			return l.lexIdent(), nil
		default:
			return token{}, EvalError{Kind: KindParse, Line: l.line,
				Message: fmt.Sprintf("unexpected character %q", string(c))}
		}
	}
	return token{kind: tokEOF, line: l.line}, nil
}

func (l *lexer) lexString(quote byte) (token, error) {
	start := l.line
	l.pos++ // opening quote
	var out []byte
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == quote {
			l.pos++
			return token{kind: tokString, text: string(out), line: start}, nil
		}
		if c == '\n' {
			break
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos++
			c = l.src[l.pos]
		}
		out = append(out, c)
		l.pos++
	}
	return token{}, EvalError{Kind: KindParse, Line: start, Message: "unterminated string literal"}
}

func (l *lexer) lexIdent() token {
	start := l.pos
	for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
		l.pos++
	}
	return token{kind: tokIdent, text: l.src[start:l.pos], line: l.line}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
