package syntax

import (
	"github.com/cockroachdb/apd"
)

// integerTerm converts an integer token into an Int, rejecting literals
// outside the int64 range instead of silently wrapping.
func integerTerm(t Token) (Term, error) {
	d, _, err := apd.NewFromString(t.Val)
	if err != nil {
		return nil, Error{Pos: t.Pos, Msg: "invalid integer " + t.Val}
	}
	i, err := d.Int64()
	if err != nil {
		return nil, Error{Pos: t.Pos, Msg: "integer " + t.Val + " out of range"}
	}
	return Int(i), nil
}
