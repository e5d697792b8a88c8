package syntax

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// lexer produces tokens from schema source text. It tracks 1-based line and
// column positions so parse errors can point at the offending spot.
type lexer struct {
	file string
	src  string
	pos  int
	line int
	col  int
}

func newLexer(file string, src []byte) *lexer {
	return &lexer{file: file, src: string(src), line: 1, col: 1}
}

func (l *lexer) errf(line, col int, format string, args ...interface{}) error {
	return ParseError{File: l.file, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// next returns the token at the current position, skipping whitespace and
// comments first. After the end of input it keeps returning EOF tokens.
func (l *lexer) next() (token, error) {
	if err := l.skipSpace(); err != nil {
		return token{}, err
	}

	line, col := l.line, l.col
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: line, col: col}, nil
	}

	c := l.src[l.pos]
	switch {
	case isIdentStart(c):
		return l.scanIdent(line, col), nil
	case isDigit(c):
		return l.scanNumber(l.pos, line, col), nil
	case c == '-':
		start := l.pos
		l.advance()
		if l.pos >= len(l.src) || !isDigit(l.src[l.pos]) {
			return token{}, l.errf(line, col, `unexpected character "-"`)
		}
		return l.scanNumber(start, line, col), nil
	case c == '"' || c == '\'':
		return l.scanString(line, col)
	}

	var kind tokenKind
	switch c {
	case '=':
		kind = tokAssign
	case ':':
		kind = tokColon
	case ';':
		kind = tokSemicolon
	case ',':
		kind = tokComma
	case '.':
		kind = tokDot
	case '{':
		kind = tokLBrace
	case '}':
		kind = tokRBrace
	case '(':
		kind = tokLParen
	case ')':
		kind = tokRParen
	case '[':
		kind = tokLBracket
	case ']':
		kind = tokRBracket
	default:
		r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
		return token{}, l.errf(line, col, "unexpected character %q", r)
	}
	l.advance()
	return token{kind: kind, text: string(c), line: line, col: col}, nil
}

// skipSpace consumes whitespace, // line comments and /* */ block comments.
func (l *lexer) skipSpace() error {
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; c {
		case ' ', '\t', '\r', '\n', '\v', '\f':
			l.advance()
		case '/':
			if l.pos+1 >= len(l.src) {
				return nil
			}
			switch l.src[l.pos+1] {
			case '/':
				for l.pos < len(l.src) && l.src[l.pos] != '\n' {
					l.advance()
				}
			case '*':
				line, col := l.line, l.col
				l.advance() // "/"
				l.advance() // "*"
				for {
					if l.pos+1 >= len(l.src) {
						return l.errf(line, col, "unterminated block comment")
					}
					if l.src[l.pos] == '*' && l.src[l.pos+1] == '/' {
						l.advance()
						l.advance()
						break
					}
					l.advance()
				}
			default:
				return nil
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) scanIdent(line, col int) token {
	start := l.pos
	for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
		l.advance()
	}
	return token{kind: tokIdent, text: l.src[start:l.pos], line: line, col: col}
}

// scanNumber consumes an integer or float literal. start may point at an
// already consumed leading minus sign. A dot is only part of the number when
// a digit follows, so "1.to" lexes as a number, a dot and an identifier.
func (l *lexer) scanNumber(start, line, col int) token {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.advance()
	}
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		l.advance()
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.advance()
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		rest := l.src[l.pos+1:]
		if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
			rest = rest[1:]
		}
		if len(rest) > 0 && isDigit(rest[0]) {
			l.advance() // e
			if l.src[l.pos] == '+' || l.src[l.pos] == '-' {
				l.advance()
			}
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.advance()
			}
		}
	}
	return token{kind: tokNumber, text: l.src[start:l.pos], line: line, col: col}
}

// scanString consumes a quoted string literal and decodes its escape
// sequences. Both double and single quotes are accepted; the token text is
// the decoded value.
func (l *lexer) scanString(line, col int) (token, error) {
	quote := l.src[l.pos]
	l.advance()

	var out strings.Builder
	for {
		if l.pos >= len(l.src) || l.src[l.pos] == '\n' {
			return token{}, l.errf(line, col, "unterminated string literal")
		}
		c := l.src[l.pos]
		if c == quote {
			l.advance()
			return token{kind: tokString, text: out.String(), line: line, col: col}, nil
		}
		if c != '\\' {
			out.WriteByte(c)
			l.advance()
			continue
		}

		escLine, escCol := l.line, l.col
		l.advance()
		if l.pos >= len(l.src) {
			return token{}, l.errf(line, col, "unterminated string literal")
		}
		switch e := l.src[l.pos]; e {
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		case 'a':
			out.WriteByte('\a')
		case 'b':
			out.WriteByte('\b')
		case 'f':
			out.WriteByte('\f')
		case 'v':
			out.WriteByte('\v')
		case '0':
			out.WriteByte(0)
		case '\\', '\'', '"':
			out.WriteByte(e)
		default:
			return token{}, l.errf(escLine, escCol, `invalid escape sequence "\%c"`, e)
		}
		l.advance()
	}
}

func (l *lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
