// Package syntax parses protocol buffer style schema source into descriptor
// trees. The parser is a plain recursive descent one: every parse function
// starts with the parser positioned on the first token of its production and
// leaves it on the token right after. Parsed files carry raw type references
// only; locating imports and binding references is done by the loader and
// the registry.
package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"go.protok.dev/protok/descriptor"
)

// Parse parses a single schema source file into its descriptor. name is the
// logical file name used in import statements and error messages.
func Parse(name string, src []byte) (*descriptor.File, error) {
	p := &parser{
		file: &descriptor.File{Name: name},
		lex:  newLexer(name, src),
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.parseFile(); err != nil {
		return nil, err
	}
	return p.file, nil
}

type parser struct {
	file *descriptor.File
	lex  *lexer
	tok  token
}

// next moves the parser forward one token.
func (p *parser) next() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// got reports whether the parser is on a token of the given kind.
func (p *parser) got(k tokenKind) bool { return p.tok.kind == k }

// gotKeyword reports whether the parser is on the given keyword. Keywords
// are contextual; the lexer only knows identifiers.
func (p *parser) gotKeyword(kw string) bool {
	return p.tok.kind == tokIdent && p.tok.text == kw
}

// expect consumes and returns a token of the given kind, or fails.
func (p *parser) expect(k tokenKind) (token, error) {
	if !p.got(k) {
		return token{}, p.errf("expected %s, got %s", k, p.tok)
	}
	tok := p.tok
	return tok, p.next()
}

func (p *parser) errf(format string, args ...interface{}) error {
	return p.errAt(p.tok, format, args...)
}

func (p *parser) errAt(tok token, format string, args ...interface{}) error {
	return ParseError{
		File: p.file.Name,
		Line: tok.line,
		Col:  tok.col,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// file = { syntax | package | import | option | message | enum | service | extend | ";" }
func (p *parser) parseFile() error {
	for !p.got(tokEOF) {
		var err error
		switch {
		case p.got(tokSemicolon):
			err = p.next()
		case p.gotKeyword("syntax"):
			err = p.parseSyntax()
		case p.gotKeyword("package"):
			err = p.parsePackage()
		case p.gotKeyword("import"):
			err = p.parseImport()
		case p.gotKeyword("option"):
			p.file.Options, err = p.parseOptionStatement(p.file.Options)
		case p.gotKeyword("message"):
			var m *descriptor.Message
			if m, err = p.parseMessage(p.fileScopeTaken); err == nil {
				p.file.Messages = append(p.file.Messages, m)
			}
		case p.gotKeyword("enum"):
			var e *descriptor.Enum
			if e, err = p.parseEnum(p.fileScopeTaken); err == nil {
				p.file.Enums = append(p.file.Enums, e)
			}
		case p.gotKeyword("service"):
			var s *descriptor.Service
			if s, err = p.parseService(); err == nil {
				p.file.Services = append(p.file.Services, s)
			}
		case p.gotKeyword("extend"):
			var e *descriptor.Extend
			if e, err = p.parseExtend(); err == nil {
				p.file.Extends = append(p.file.Extends, e)
			}
		default:
			return p.errf("unexpected %s at file scope", p.tok)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) fileScopeTaken(name string) bool {
	return scopeTaken(p.file.Messages, p.file.Enums, name)
}

// syntax = "syntax" "=" string ";"
//
// The declared syntax level is recorded as a file option and otherwise not
// interpreted.
func (p *parser) parseSyntax() error {
	if err := p.next(); err != nil {
		return err
	}
	if _, err := p.expect(tokAssign); err != nil {
		return err
	}
	tok, err := p.expect(tokString)
	if err != nil {
		return err
	}
	p.file.Options = p.file.Options.Set("syntax", tok.text)
	_, err = p.expect(tokSemicolon)
	return err
}

// package = "package" dottedName ";"
func (p *parser) parsePackage() error {
	if p.file.Package != "" {
		return p.errf("duplicate package declaration")
	}
	if err := p.next(); err != nil {
		return err
	}
	name, err := p.parseDottedName()
	if err != nil {
		return err
	}
	p.file.Package = name
	_, err = p.expect(tokSemicolon)
	return err
}

// import = "import" string ";"
func (p *parser) parseImport() error {
	if err := p.next(); err != nil {
		return err
	}
	tok, err := p.expect(tokString)
	if err != nil {
		return err
	}
	p.file.Imports = append(p.file.Imports, &descriptor.Import{Name: tok.text})
	_, err = p.expect(tokSemicolon)
	return err
}

// option = "option" dottedName ( "=" | ":" ) value ";"
func (p *parser) parseOptionStatement(opts descriptor.Options) (descriptor.Options, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	key, err := p.parseDottedName()
	if err != nil {
		return nil, err
	}
	opts, err = p.parseOptionAssignment(opts, key)
	if err != nil {
		return nil, err
	}
	_, err = p.expect(tokSemicolon)
	return opts, err
}

// message = "message" ident "{" { field | message | enum | option | ";" } "}"
//
// taken reports whether a type name is already declared in the enclosing
// scope; sibling messages and enums share one namespace.
func (p *parser) parseMessage(taken func(string) bool) (*descriptor.Message, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if taken(nameTok.text) {
		return nil, p.errAt(nameTok, "duplicate type name %q", nameTok.text)
	}
	m := &descriptor.Message{Name: nameTok.text}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}

	nestedTaken := func(name string) bool { return scopeTaken(m.Messages, m.Enums, name) }
	for !p.got(tokRBrace) {
		var err error
		switch {
		case p.got(tokEOF):
			return nil, p.errf(`unexpected end of file in message %q, missing "}"`, m.Name)
		case p.got(tokSemicolon):
			err = p.next()
		case p.gotKeyword("option"):
			m.Options, err = p.parseOptionStatement(m.Options)
		case p.gotKeyword("message"):
			var nested *descriptor.Message
			if nested, err = p.parseMessage(nestedTaken); err == nil {
				m.Messages = append(m.Messages, nested)
			}
		case p.gotKeyword("enum"):
			var nested *descriptor.Enum
			if nested, err = p.parseEnum(nestedTaken); err == nil {
				m.Enums = append(m.Enums, nested)
			}
		case p.gotKeyword("extend"):
			return nil, p.errf("extend blocks are only allowed at file scope")
		default:
			var fld *descriptor.Field
			if fld, err = p.parseField(); err == nil {
				m.Fields = append(m.Fields, fld)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return m, p.next()
}

// field = [ "required" | "optional" | "repeated" ] typeName ident "=" number
//	[ "[" optionList "]" ] ";"
func (p *parser) parseField() (*descriptor.Field, error) {
	card := descriptor.Required
	switch {
	case p.gotKeyword("required"):
		if err := p.next(); err != nil {
			return nil, err
		}
	case p.gotKeyword("optional"):
		card = descriptor.Optional
		if err := p.next(); err != nil {
			return nil, err
		}
	case p.gotKeyword("repeated"):
		card = descriptor.Repeated
		if err := p.next(); err != nil {
			return nil, err
		}
	}

	typeName, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if !p.got(tokAssign) {
		return nil, p.errf("missing number for field %q", nameTok.text)
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	numTok, err := p.expect(tokNumber)
	if err != nil {
		return nil, err
	}
	number, convErr := strconv.Atoi(numTok.text)
	if convErr != nil || number <= 0 {
		return nil, p.errAt(numTok, "invalid number %q for field %q", numTok.text, nameTok.text)
	}

	fld := &descriptor.Field{
		Name:        nameTok.text,
		Number:      number,
		Cardinality: card,
		Type:        descriptor.NewTypeRef(typeName),
	}
	if p.got(tokLBracket) {
		if fld.Options, err = p.parseBracketOptions(); err != nil {
			return nil, err
		}
	}
	_, err = p.expect(tokSemicolon)
	return fld, err
}

// enum = "enum" ident "{" { ident "=" number ";" | option | ";" } "}"
//
// Value numbers must be unique unless the allow_alias option is set; the
// check runs once the whole enum is parsed, since the option may follow the
// aliased values.
func (p *parser) parseEnum(taken func(string) bool) (*descriptor.Enum, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if taken(nameTok.text) {
		return nil, p.errAt(nameTok, "duplicate type name %q", nameTok.text)
	}
	e := &descriptor.Enum{Name: nameTok.text}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}

	names := make(map[string]struct{})
	numbers := make(map[int]string)
	var aliasErr error
	for !p.got(tokRBrace) {
		switch {
		case p.got(tokEOF):
			return nil, p.errf(`unexpected end of file in enum %q, missing "}"`, e.Name)
		case p.got(tokSemicolon):
			if err := p.next(); err != nil {
				return nil, err
			}
		case p.gotKeyword("option"):
			if e.Options, err = p.parseOptionStatement(e.Options); err != nil {
				return nil, err
			}
		case p.got(tokIdent):
			valTok := p.tok
			if err := p.next(); err != nil {
				return nil, err
			}
			if _, dup := names[valTok.text]; dup {
				return nil, p.errAt(valTok, "duplicate enum value name %q", valTok.text)
			}
			names[valTok.text] = struct{}{}
			if !p.got(tokAssign) {
				return nil, p.errf("missing number for enum value %q", valTok.text)
			}
			if err := p.next(); err != nil {
				return nil, err
			}
			numTok, err := p.expect(tokNumber)
			if err != nil {
				return nil, err
			}
			number, convErr := strconv.Atoi(numTok.text)
			if convErr != nil {
				return nil, p.errAt(numTok, "invalid number %q for enum value %q", numTok.text, valTok.text)
			}
			if first, seen := numbers[number]; seen && aliasErr == nil {
				aliasErr = p.errAt(numTok,
					"enum value %q reuses number %d of %q without allow_alias", valTok.text, number, first)
			} else {
				numbers[number] = valTok.text
			}
			if _, err := p.expect(tokSemicolon); err != nil {
				return nil, err
			}
			e.Values = append(e.Values, &descriptor.EnumValue{Name: valTok.text, Number: number})
		default:
			return nil, p.errf("expected enum value or option, got %s", p.tok)
		}
	}
	if aliasErr != nil {
		if allow, _ := e.Options["allow_alias"].(bool); !allow {
			return nil, aliasErr
		}
	}
	return e, p.next()
}

// service = "service" ident "{" { rpc | option | ";" } "}"
func (p *parser) parseService() (*descriptor.Service, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	s := &descriptor.Service{Name: nameTok.text}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}

	for !p.got(tokRBrace) {
		var err error
		switch {
		case p.got(tokEOF):
			return nil, p.errf(`unexpected end of file in service %q, missing "}"`, s.Name)
		case p.got(tokSemicolon):
			err = p.next()
		case p.gotKeyword("option"):
			s.Options, err = p.parseOptionStatement(s.Options)
		case p.gotKeyword("rpc"):
			var m *descriptor.Method
			if m, err = p.parseMethod(); err == nil {
				s.Methods = append(s.Methods, m)
			}
		default:
			return nil, p.errf("expected rpc or option, got %s", p.tok)
		}
		if err != nil {
			return nil, err
		}
	}
	return s, p.next()
}

// rpc = "rpc" ident "(" typeName ")" "returns" "(" typeName ")"
//	( ";" | "{" { option | ";" } "}" )
func (p *parser) parseMethod() (*descriptor.Method, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	m := &descriptor.Method{Name: nameTok.text}

	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	input, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	m.Input = descriptor.NewTypeRef(input)
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}

	if !p.gotKeyword("returns") {
		return nil, p.errf(`expected "returns", got %s`, p.tok)
	}
	if err := p.next(); err != nil {
		return nil, err
	}

	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	output, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	m.Output = descriptor.NewTypeRef(output)
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}

	if !p.got(tokLBrace) {
		_, err := p.expect(tokSemicolon)
		return m, err
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	for !p.got(tokRBrace) {
		switch {
		case p.got(tokEOF):
			return nil, p.errf(`unexpected end of file in rpc %q, missing "}"`, m.Name)
		case p.got(tokSemicolon):
			if err := p.next(); err != nil {
				return nil, err
			}
		case p.gotKeyword("option"):
			if m.Options, err = p.parseOptionStatement(m.Options); err != nil {
				return nil, err
			}
		default:
			return nil, p.errf("expected option, got %s", p.tok)
		}
	}
	return m, p.next()
}

// extend = "extend" typeName "{" { field | ";" } "}"
func (p *parser) parseExtend() (*descriptor.Extend, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	target, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	e := &descriptor.Extend{Target: target}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}

	for !p.got(tokRBrace) {
		switch {
		case p.got(tokEOF):
			return nil, p.errf(`unexpected end of file in extend %q, missing "}"`, e.Target)
		case p.got(tokSemicolon):
			if err := p.next(); err != nil {
				return nil, err
			}
		default:
			fld, err := p.parseField()
			if err != nil {
				return nil, err
			}
			e.Fields = append(e.Fields, fld)
		}
	}
	return e, p.next()
}

// typeName = [ "." ] ident { "." ident }
func (p *parser) parseTypeName() (string, error) {
	var sb strings.Builder
	if p.got(tokDot) {
		sb.WriteByte('.')
		if err := p.next(); err != nil {
			return "", err
		}
	}
	for {
		if !p.got(tokIdent) {
			return "", p.errf("expected type name, got %s", p.tok)
		}
		sb.WriteString(p.tok.text)
		if err := p.next(); err != nil {
			return "", err
		}
		if !p.got(tokDot) {
			return sb.String(), nil
		}
		sb.WriteByte('.')
		if err := p.next(); err != nil {
			return "", err
		}
	}
}

// dottedName = ident { "." ident }
func (p *parser) parseDottedName() (string, error) {
	var sb strings.Builder
	for {
		tok, err := p.expect(tokIdent)
		if err != nil {
			return "", err
		}
		sb.WriteString(tok.text)
		if !p.got(tokDot) {
			return sb.String(), nil
		}
		sb.WriteByte('.')
		if err := p.next(); err != nil {
			return "", err
		}
	}
}

// optionList = dottedName ( "=" | ":" ) value { "," dottedName ( "=" | ":" ) value }
func (p *parser) parseBracketOptions() (descriptor.Options, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var opts descriptor.Options
	for {
		key, err := p.parseDottedName()
		if err != nil {
			return nil, err
		}
		if opts, err = p.parseOptionAssignment(opts, key); err != nil {
			return nil, err
		}
		if !p.got(tokComma) {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	_, err := p.expect(tokRBracket)
	return opts, err
}

func (p *parser) parseOptionAssignment(opts descriptor.Options, key string) (descriptor.Options, error) {
	if !p.got(tokAssign) && !p.got(tokColon) {
		return nil, p.errf(`expected "=" or ":", got %s`, p.tok)
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	value, err := p.parseOptionValue()
	if err != nil {
		return nil, err
	}
	return opts.Set(key, value), nil
}

// value = string | number | "true" | "false" | ident
//
// Integers come out as int64, floats as float64, bare identifiers (enum
// default values and the like) as strings.
func (p *parser) parseOptionValue() (interface{}, error) {
	switch {
	case p.got(tokString):
		v := p.tok.text
		return v, p.next()
	case p.got(tokNumber):
		tok := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}
		if strings.ContainsAny(tok.text, ".eE") {
			f, err := strconv.ParseFloat(tok.text, 64)
			if err != nil {
				return nil, p.errAt(tok, "invalid number %q", tok.text)
			}
			return f, nil
		}
		i, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, p.errAt(tok, "invalid number %q", tok.text)
		}
		return i, nil
	case p.got(tokIdent):
		tok := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}
		switch tok.text {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return tok.text, nil
	default:
		return nil, p.errf("expected option value, got %s", p.tok)
	}
}

func scopeTaken(msgs []*descriptor.Message, enums []*descriptor.Enum, name string) bool {
	for _, m := range msgs {
		if m.Name == name {
			return true
		}
	}
	for _, e := range enums {
		if e.Name == name {
			return true
		}
	}
	return false
}
