package syntax

import (
	"sync"
)

var nameTable = struct {
	sync.RWMutex
	texts []string
	names map[string]Name
}{
	names: map[string]Name{},
}

// Name is an ID for an interned string.
// Two names are equal if and only if their texts are equal, so comparing
// names never requires comparing texts.
type Name int32

// NewName interns the given text and returns a Name.
func NewName(text string) Name {
	nameTable.RLock()
	n, ok := nameTable.names[text]
	nameTable.RUnlock()
	if ok {
		return n
	}

	nameTable.Lock()
	defer nameTable.Unlock()

	if n, ok := nameTable.names[text]; ok {
		return n
	}

	n = Name(len(nameTable.texts))
	nameTable.names[text] = n
	nameTable.texts = append(nameTable.texts, text)
	return n
}

func (n Name) String() string {
	nameTable.RLock()
	defer nameTable.RUnlock()
	return nameTable.texts[n]
}

// Names that the parser and the runtime refer to directly.
var (
	NameNil   = NewName("nil")
	NameCons  = NewName("::")
	NameTrue  = NewName("true")
	NameComma = NewName(",")
)
