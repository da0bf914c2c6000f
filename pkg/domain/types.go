package domain

import "strings"

// TypeTag names the payload type carried by a slot (e.g. "IMAGE", "LATENT").
// The tag space is closed over concrete names plus the TypeAny sentinel.
type TypeTag string

// TypeAny is the wildcard capability tag. It is compatible with every concrete
// tag in both directions. The empty tag is treated as TypeAny.
const TypeAny TypeTag = "*"

// Normalize trims the tag and maps the empty tag to TypeAny.
func (t TypeTag) Normalize() TypeTag {
	s := strings.TrimSpace(string(t))
	if s == "" {
		return TypeAny
	}
	return TypeTag(s)
}

// IsAny reports whether the tag is the wildcard sentinel.
func (t TypeTag) IsAny() bool {
	return t.Normalize() == TypeAny
}

func (t TypeTag) String() string {
	return string(t.Normalize())
}

// Compatible reports whether a value tagged a may flow into a slot tagged b.
func Compatible(a, b TypeTag) bool {
	if a.IsAny() || b.IsAny() {
		return true
	}
	return a.Normalize() == b.Normalize()
}

// Narrow returns the more specific of two compatible tags.
// Concrete tags win over TypeAny; when both are concrete, a is returned.
func Narrow(a, b TypeTag) TypeTag {
	if a.IsAny() {
		return b.Normalize()
	}
	return a.Normalize()
}
