package syntax

import (
	"fmt"
	"sort"
)

// Fixity is the shape of a declared operator.
type Fixity byte

const (
	// FixityInfix is a non-associative infix operator.
	FixityInfix Fixity = iota

	// FixityInfixl is a left-associative infix operator.
	FixityInfixl

	// FixityInfixr is a right-associative infix operator.
	FixityInfixr

	// FixityPrefix is a prefix operator.
	FixityPrefix

	// FixityPostfix is a postfix operator.
	FixityPostfix

	fixityLen
)

func (f Fixity) String() string {
	return [fixityLen]string{
		FixityInfix:   "infix",
		FixityInfixl:  "infixl",
		FixityInfixr:  "infixr",
		FixityPrefix:  "prefix",
		FixityPostfix: "postfix",
	}[f]
}

// MaxPrec is the largest allowed operator precedence. Larger numbers bind
// tighter.
const MaxPrec = 256

// Operator is a declared operator: a symbol, a fixity and a precedence.
// A symbol has at most one recorded fixity/precedence pair; redeclaration
// overwrites.
type Operator struct {
	Name Name
	Fix  Fixity
	Prec int
}

// PrecedenceError is a fatal declaration error: a precedence outside
// [0, MaxPrec].
type PrecedenceError struct {
	Prec int
}

func (e *PrecedenceError) Error() string {
	return fmt.Sprintf("operator precedence %d out of range [0, %d]", e.Prec, MaxPrec)
}

// Resolver loads accumulated or imported files and returns the
// concatenation of their clauses in argument order.
type Resolver interface {
	Resolve(names []string) ([]Term, error)
}

// Session owns the mutable parsing state: the operator table, the
// precedence ladder and the fresh-variable counter. The grammar is data
// interpreted by the parser, so operator declarations are insertions into
// this state, never code. A Session is not safe for concurrent use;
// independent programs parsed concurrently need separate sessions.
type Session struct {
	// Resolver handles accumulate and import directives. If nil, such
	// directives are errors.
	Resolver Resolver

	ops    map[Name]Operator
	levels map[int][]Operator
	ladder []int // distinct precedences, strictly descending
	fresh  int64
}

// NewSession creates a session with no operators declared.
func NewSession() *Session {
	return &Session{
		ops:    map[Name]Operator{},
		levels: map[int][]Operator{},
	}
}

// Declared reports whether text has been declared as an operator symbol.
func (s *Session) Declared(text string) bool {
	_, ok := s.ops[NewName(text)]
	return ok
}

// Operator looks up the declaration for a symbol.
func (s *Session) Operator(n Name) (Operator, bool) {
	op, ok := s.ops[n]
	return op, ok
}

// Ladder returns a copy of the precedence ladder, tightest first.
func (s *Session) Ladder() []int {
	ladder := make([]int, len(s.ladder))
	copy(ladder, s.ladder)
	return ladder
}

// Declare records an operator and installs its production in the grammar.
// If the precedence level already exists the production joins it;
// otherwise a new level is inserted, keeping the ladder strictly
// descending. The ladder never shrinks.
func (s *Session) Declare(fix Fixity, n Name, prec int) error {
	if prec < 0 || prec > MaxPrec {
		return &PrecedenceError{Prec: prec}
	}

	if old, ok := s.ops[n]; ok {
		s.removeProduction(old)
	}

	op := Operator{Name: n, Fix: fix, Prec: prec}
	s.ops[n] = op

	i := sort.Search(len(s.ladder), func(i int) bool { return s.ladder[i] <= prec })
	if i == len(s.ladder) || s.ladder[i] != prec {
		s.ladder = append(s.ladder, 0)
		copy(s.ladder[i+1:], s.ladder[i:])
		s.ladder[i] = prec
	}
	s.levels[prec] = append(s.levels[prec], op)
	return nil
}

func (s *Session) removeProduction(op Operator) {
	prods := s.levels[op.Prec]
	for i := range prods {
		if prods[i].Name == op.Name {
			s.levels[op.Prec] = append(prods[:i:i], prods[i+1:]...)
			return
		}
	}
}

// levelIndex returns the ladder index of prec, or -1 if absent.
func (s *Session) levelIndex(prec int) int {
	for i, p := range s.ladder {
		if p == prec {
			return i
		}
	}
	return -1
}

// FreshName mints a globally unique name for a fresh-variable
// placeholder. The counter is monotone and never reused within the
// session; the spelling cannot be written in source, so minted names
// never collide with user variables.
func (s *Session) FreshName() Name {
	s.fresh++
	return NewName(fmt.Sprintf("_:%d", s.fresh))
}
