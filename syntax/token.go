package syntax

import "fmt"

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokAssign    // =
	tokColon     // :
	tokSemicolon // ;
	tokComma     // ,
	tokDot       // .
	tokLBrace    // {
	tokRBrace    // }
	tokLParen    // (
	tokRParen    // )
	tokLBracket  // [
	tokRBracket  // ]
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of file"
	case tokIdent:
		return "identifier"
	case tokNumber:
		return "number"
	case tokString:
		return "string literal"
	case tokAssign:
		return `"="`
	case tokColon:
		return `":"`
	case tokSemicolon:
		return `";"`
	case tokComma:
		return `","`
	case tokDot:
		return `"."`
	case tokLBrace:
		return `"{"`
	case tokRBrace:
		return `"}"`
	case tokLParen:
		return `"("`
	case tokRParen:
		return `")"`
	case tokLBracket:
		return `"["`
	case tokRBracket:
		return `"]"`
	default:
		return fmt.Sprintf("tokenKind(%d)", uint8(k))
	}
}

// token is a single lexeme with its 1-based source position. text holds the
// identifier or number spelling, or the decoded value for string literals.
type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

func (t token) String() string {
	switch t.kind {
	case tokIdent, tokNumber:
		return fmt.Sprintf("%s %q", t.kind, t.text)
	case tokString:
		return fmt.Sprintf("string literal %q", t.text)
	default:
		return t.kind.String()
	}
}
