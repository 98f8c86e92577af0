package query

import "fmt"

// parser is a recursive-descent parser for the query grammar:
//
//	script  := { stmt (NEWLINE | ';') }
//	stmt    := IDENT '=' expr
//	expr    := primary { '|' primary }
//	primary := IDENT [ '(' [expr {',' expr}] ')' ]
//	         | '[' [expr {',' expr}] ']'
//	         | STRING
//	         | UNARYOP primary
type parser struct {
	lex  *lexer
	tok  token
	peek *token
}

// Parse parses query source into a Script. A syntax error fails the
// whole parse; nothing of the script is usable afterwards.
func Parse(source string) (*Script, error) {
	p := &parser{lex: newLexer(source)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	script := &Script{}
	for p.tok.kind != tokEOF {
		if p.tok.kind == tokNewline {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		script.Stmts = append(script.Stmts, stmt)
	}
	return script, nil
}

func (p *parser) advance() error {
	if p.peek != nil {
		p.tok = *p.peek
		p.peek = nil
		return nil
	}
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return EvalError{Kind: KindParse, Line: p.tok.line, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) parseStmt() (Stmt, error) {
	if p.tok.kind != tokIdent {
		return Stmt{}, p.errorf("expected assignment target, got %q", p.tok.text)
	}
	target := p.tok.text
	line := p.tok.line
	if err := p.advance(); err != nil {
		return Stmt{}, err
	}
	if p.tok.kind != tokAssign {
		return Stmt{}, p.errorf("expected '=' after %q", target)
	}
	if err := p.advance(); err != nil {
		return Stmt{}, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return Stmt{}, err
	}
	switch p.tok.kind {
	case tokNewline, tokEOF:
	case tokAssign:
		return Stmt{}, p.errorf("chained assignment is not allowed")
	default:
		return Stmt{}, p.errorf("unexpected %q after statement", p.tok.text)
	}
	if p.tok.kind == tokNewline {
		if err := p.advance(); err != nil {
			return Stmt{}, err
		}
	}
	return Stmt{Line: line, Target: target, Value: value}, nil
}

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPipe {
		line := p.tok.line
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = BarExpr{Line: line, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.tok.kind {
	case tokIdent:
		name := p.tok.text
		line := p.tok.line
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokLParen {
			return p.parseCall(name, line)
		}
		return NameExpr{Line: line, Name: name}, nil
	case tokString:
		e := StringExpr{Line: p.tok.line, Value: p.tok.text}
		return e, p.advance()
	case tokLBracket:
		return p.parseList()
	case tokUnaryOp:
		op := p.tok.text
		line := p.tok.line
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return UnaryExpr{Line: line, Op: op, X: x}, nil
	default:
		return nil, p.errorf("expected expression, got %q", p.tok.text)
	}
}

func (p *parser) parseList() (Expr, error) {
	list := ListExpr{Line: p.tok.line}
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	for p.tok.kind != tokRBracket {
		// Allow the list to span lines, like any bracketed literal.
		if p.tok.kind == tokNewline {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list.Elems = append(list.Elems, elem)
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.tok.kind != tokRBracket && p.tok.kind != tokNewline {
			return nil, p.errorf("expected ',' or ']' in list")
		}
	}
	return list, p.advance() // consume ']'
}

func (p *parser) parseCall(fn string, line int) (Expr, error) {
	call := CallExpr{Line: line, Fn: fn}
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	for p.tok.kind != tokRParen {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.tok.kind != tokRParen {
			return nil, p.errorf("expected ',' or ')' in call")
		}
	}
	return call, p.advance() // consume ')'
}
