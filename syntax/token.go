package syntax

import "fmt"

// Token is the smallest meaningful unit of a source text.
type Token struct {
	Kind TokenKind
	Val  string
	Pos  Position
}

func (t Token) String() string {
	return fmt.Sprintf("<%s %q>", t.Kind, t.Val)
}

// Position is a location in a source text.
type Position struct {
	Line, Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// TokenKind is a type of Token.
type TokenKind byte

const (
	// TokenEOS represents an end of token stream.
	TokenEOS TokenKind = iota

	// TokenIdent represents an identifier: a constant or, if the leading
	// rune is uppercase or an underscore, an implicitly quantified variable.
	TokenIdent

	// TokenGraphic represents a run of symbolic characters.
	TokenGraphic

	// TokenBuiltin represents a $-marked native predicate name.
	TokenBuiltin

	// TokenInteger represents an integer literal.
	TokenInteger

	// TokenFloat represents a floating-point literal.
	TokenFloat

	// TokenString represents a double-quoted string literal.
	TokenString

	// TokenBind represents the binder marker backslash.
	TokenBind

	// TokenComma represents a comma.
	TokenComma

	// TokenBar represents a bar.
	TokenBar

	// TokenParenL represents an open parenthesis.
	TokenParenL

	// TokenParenR represents a close parenthesis.
	TokenParenR

	// TokenBracketL represents an open bracket.
	TokenBracketL

	// TokenBracketR represents a close bracket.
	TokenBracketR

	// TokenFullStop represents an end of clause.
	TokenFullStop

	// TokenSymbol represents an identifier-like token that has been
	// declared as an operator in the current session.
	TokenSymbol

	// TokenModule, TokenSig, TokenAccumulate, TokenImport, TokenLocal,
	// TokenKindDecl, TokenTypeDecl and TokenFixity are reserved keywords.
	TokenModule
	TokenSig
	TokenAccumulate
	TokenImport
	TokenLocal
	TokenKindDecl
	TokenTypeDecl
	TokenFixity

	tokenKindLen
)

func (k TokenKind) String() string {
	return [tokenKindLen]string{
		TokenEOS:        "eos",
		TokenIdent:      "ident",
		TokenGraphic:    "graphic",
		TokenBuiltin:    "builtin",
		TokenInteger:    "integer",
		TokenFloat:      "float",
		TokenString:     "string",
		TokenBind:       "bind",
		TokenComma:      "comma",
		TokenBar:        "bar",
		TokenParenL:     "paren L",
		TokenParenR:     "paren R",
		TokenBracketL:   "bracket L",
		TokenBracketR:   "bracket R",
		TokenFullStop:   "full stop",
		TokenSymbol:     "symbol",
		TokenModule:     "module",
		TokenSig:        "sig",
		TokenAccumulate: "accumulate",
		TokenImport:     "import",
		TokenLocal:      "local",
		TokenKindDecl:   "kind",
		TokenTypeDecl:   "type",
		TokenFixity:     "fixity",
	}[k]
}

var keywords = map[string]TokenKind{
	"module":     TokenModule,
	"sig":        TokenSig,
	"accumulate": TokenAccumulate,
	"import":     TokenImport,
	"local":      TokenLocal,
	"kind":       TokenKindDecl,
	"type":       TokenTypeDecl,
	"infixl":     TokenFixity,
	"infixr":     TokenFixity,
	"infix":      TokenFixity,
	"prefix":     TokenFixity,
	"postfix":    TokenFixity,
}
