package lemma

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAddress is returned for verse identifiers that cannot be addressed.
var ErrAddress = errors.New("malformed verse address")

// Address is a dotted verse identifier split into its components,
// e.g. "Gen.1.1" -> {Book: "Gen", Chapter: "1", Verse: "1"}.
type Address struct {
	Book    string
	Chapter string
	Verse   string // empty when the identifier has only two components
}

// ParseAddress splits an osisID. At least two dot-separated components are
// required; the chapter key is always the second one.
func ParseAddress(id string) (Address, error) {
	if id == "" {
		return Address{}, fmt.Errorf("%w: empty identifier", ErrAddress)
	}
	parts := strings.Split(id, ".")
	if len(parts) < 2 {
		return Address{}, fmt.Errorf("%w: %q has no chapter component", ErrAddress, id)
	}
	if parts[0] == "" || parts[1] == "" {
		return Address{}, fmt.Errorf("%w: %q has an empty book or chapter", ErrAddress, id)
	}
	addr := Address{Book: parts[0], Chapter: parts[1]}
	if len(parts) > 2 {
		addr.Verse = parts[2]
	}
	return addr, nil
}

func (a Address) String() string {
	if a.Verse == "" {
		return a.Book + "." + a.Chapter
	}
	return a.Book + "." + a.Chapter + "." + a.Verse
}
