package syntax

import (
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Error is a lexical or syntactic error, carrying the position at which
// the input stopped making sense.
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Lexer turns runes into tokens.
//
// Identifier-like tokens are classified by shape first, then rewritten:
// exact keyword texts become keyword tokens and texts declared as
// operators in the session become TokenSymbol, whatever their shape.
// The lexer reads the live operator set but never writes it.
type Lexer struct {
	input    io.RuneReader
	declared func(string) bool

	cur      Position
	nextPos  Position
	pushback []runePos
}

type runePos struct {
	r   rune
	pos Position
}

// NewLexer creates a lexer reading from r. declared reports whether a
// text has been declared as an operator; it may be nil.
func NewLexer(r io.RuneReader, declared func(string) bool) *Lexer {
	if declared == nil {
		declared = func(string) bool { return false }
	}
	return &Lexer{
		input:    r,
		declared: declared,
		nextPos:  Position{Line: 1, Column: 1},
	}
}

const etx = 0x2

func (l *Lexer) next() (rune, error) {
	if n := len(l.pushback); n > 0 {
		rp := l.pushback[n-1]
		l.pushback = l.pushback[:n-1]
		l.cur = rp.pos
		return rp.r, nil
	}
	r, _, err := l.input.ReadRune()
	switch err {
	case nil:
	case io.EOF:
		r = etx
	default:
		return 0, err
	}
	l.cur = l.nextPos
	switch r {
	case etx:
	case '\n':
		l.nextPos.Line++
		l.nextPos.Column = 1
	default:
		l.nextPos.Column++
	}
	return r, nil
}

func (l *Lexer) backup(r rune) {
	l.pushback = append(l.pushback, runePos{r: r, pos: l.cur})
}

func (l *Lexer) errorf(pos Position, format string, args ...interface{}) error {
	return Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// graphicChars is the reserved symbolic character set. A run of these
// forms a symbolic constant such as `:-` or `=>`.
const graphicChars = `+-*/\^<>=~:.?@#&!;` + "`"

func isGraphic(r rune) bool {
	return strings.ContainsRune(graphicChars, r)
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentRest(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\''
}

// Next returns the next token, skipping whitespace and comments.
func (l *Lexer) Next() (Token, error) {
	for {
		r, err := l.next()
		if err != nil {
			return Token{}, err
		}
		start := l.cur

		switch {
		case r == etx:
			return Token{Kind: TokenEOS, Pos: start}, nil
		case unicode.IsSpace(r):
			continue
		case r == '%':
			if err := l.lineComment(); err != nil {
				return Token{}, err
			}
			continue
		case r == '/':
			r2, err := l.next()
			if err != nil {
				return Token{}, err
			}
			if r2 == '*' {
				if err := l.blockComment(start); err != nil {
					return Token{}, err
				}
				continue
			}
			l.backup(r2)
			return l.graphic(r, start)
		case r == '(':
			return Token{Kind: TokenParenL, Val: "(", Pos: start}, nil
		case r == ')':
			return Token{Kind: TokenParenR, Val: ")", Pos: start}, nil
		case r == '[':
			return Token{Kind: TokenBracketL, Val: "[", Pos: start}, nil
		case r == ']':
			return Token{Kind: TokenBracketR, Val: "]", Pos: start}, nil
		case r == '|':
			return Token{Kind: TokenBar, Val: "|", Pos: start}, nil
		case r == ',':
			t := Token{Kind: TokenComma, Val: ",", Pos: start}
			if l.declared(",") {
				t.Kind = TokenSymbol
			}
			return t, nil
		case r == '"':
			return l.str(start)
		case r == '$':
			return l.builtin(start)
		case unicode.IsDigit(r):
			return l.number(r, start)
		case isIdentStart(r):
			return l.ident(r, start)
		case isGraphic(r):
			return l.graphic(r, start)
		default:
			return Token{}, l.errorf(start, "unexpected character %q", r)
		}
	}
}

func (l *Lexer) lineComment() error {
	for {
		r, err := l.next()
		if err != nil {
			return err
		}
		if r == '\n' || r == etx {
			return nil
		}
	}
}

// blockComment skips a /* ... */ comment. Comments nest.
func (l *Lexer) blockComment(start Position) error {
	depth := 1
	for depth > 0 {
		r, err := l.next()
		if err != nil {
			return err
		}
		switch r {
		case etx:
			return l.errorf(start, "unterminated block comment")
		case '*':
			r2, err := l.next()
			if err != nil {
				return err
			}
			if r2 == '/' {
				depth--
			} else {
				l.backup(r2)
			}
		case '/':
			r2, err := l.next()
			if err != nil {
				return err
			}
			if r2 == '*' {
				depth++
			} else {
				l.backup(r2)
			}
		}
	}
	return nil
}

func (l *Lexer) ident(r rune, start Position) (Token, error) {
	var b strings.Builder
	_, _ = b.WriteRune(r)
	for {
		r, err := l.next()
		if err != nil {
			return Token{}, err
		}
		if !isIdentRest(r) {
			l.backup(r)
			break
		}
		_, _ = b.WriteRune(r)
	}

	t := Token{Kind: TokenIdent, Val: b.String(), Pos: start}
	if k, ok := keywords[t.Val]; ok {
		t.Kind = k
		return t, nil
	}
	if l.declared(t.Val) {
		t.Kind = TokenSymbol
	}
	return t, nil
}

func (l *Lexer) graphic(r rune, start Position) (Token, error) {
	var b strings.Builder
	_, _ = b.WriteRune(r)
	for {
		r, err := l.next()
		if err != nil {
			return Token{}, err
		}
		if !isGraphic(r) {
			l.backup(r)
			break
		}
		_, _ = b.WriteRune(r)
	}

	t := Token{Kind: TokenGraphic, Val: b.String(), Pos: start}
	switch t.Val {
	case ".":
		t.Kind = TokenFullStop
		return t, nil
	case `\`:
		t.Kind = TokenBind
		return t, nil
	}
	if l.declared(t.Val) {
		t.Kind = TokenSymbol
	}
	return t, nil
}

func (l *Lexer) builtin(start Position) (Token, error) {
	r, err := l.next()
	if err != nil {
		return Token{}, err
	}
	if !isIdentStart(r) {
		l.backup(r)
		return Token{}, l.errorf(start, "expected a name after $")
	}
	var b strings.Builder
	_, _ = b.WriteRune('$')
	_, _ = b.WriteRune(r)
	for {
		r, err := l.next()
		if err != nil {
			return Token{}, err
		}
		if !isIdentRest(r) {
			l.backup(r)
			break
		}
		_, _ = b.WriteRune(r)
	}
	return Token{Kind: TokenBuiltin, Val: b.String(), Pos: start}, nil
}

func (l *Lexer) number(r rune, start Position) (Token, error) {
	var b strings.Builder
	_, _ = b.WriteRune(r)
	kind := TokenInteger
	for {
		r, err := l.next()
		if err != nil {
			return Token{}, err
		}
		switch {
		case unicode.IsDigit(r):
			_, _ = b.WriteRune(r)
		case r == '.' && kind == TokenInteger:
			// A fraction only if a digit follows; otherwise it's a full stop.
			r2, err := l.next()
			if err != nil {
				return Token{}, err
			}
			if !unicode.IsDigit(r2) {
				l.backup(r2)
				l.backup(r)
				return Token{Kind: kind, Val: b.String(), Pos: start}, nil
			}
			kind = TokenFloat
			_, _ = b.WriteRune('.')
			_, _ = b.WriteRune(r2)
		case r == 'e' || r == 'E':
			r2, err := l.next()
			if err != nil {
				return Token{}, err
			}
			if r2 != '+' && r2 != '-' && !unicode.IsDigit(r2) {
				l.backup(r2)
				l.backup(r)
				return Token{Kind: kind, Val: b.String(), Pos: start}, nil
			}
			kind = TokenFloat
			_, _ = b.WriteRune(r)
			_, _ = b.WriteRune(r2)
		default:
			l.backup(r)
			return Token{Kind: kind, Val: b.String(), Pos: start}, nil
		}
	}
}

func (l *Lexer) str(start Position) (Token, error) {
	var b strings.Builder
	for {
		r, err := l.next()
		if err != nil {
			return Token{}, err
		}
		switch r {
		case etx, '\n':
			return Token{}, l.errorf(start, "unterminated string")
		case '"':
			return Token{Kind: TokenString, Val: b.String(), Pos: start}, nil
		case '\\':
			r2, err := l.next()
			if err != nil {
				return Token{}, err
			}
			switch r2 {
			case 'n':
				_, _ = b.WriteRune('\n')
			case 't':
				_, _ = b.WriteRune('\t')
			case 'r':
				_, _ = b.WriteRune('\r')
			case '\\', '"', '\'':
				_, _ = b.WriteRune(r2)
			default:
				return Token{}, l.errorf(l.cur, "unknown escape \\%c", r2)
			}
		default:
			_, _ = b.WriteRune(r)
		}
	}
}
