package parser

import (
	"github.com/dlclark/regexp2"
)

// identifierName matches an ECMAScript IdentifierName: a property name that
// can follow a '.' without quoting.
var identifierName = regexp2.MustCompile(`^[\p{L}\p{Nl}$_][\p{L}\p{Nl}\p{Mn}\p{Mc}\p{Nd}\p{Pc}$\u200C\u200D]*\z`, regexp2.None)

// IsIdentifierName reports whether name can be written as `obj.name`.
func IsIdentifierName(name string) bool {
	if name == "" {
		return false
	}
	ok, err := identifierName.MatchString(name)
	return err == nil && ok
}
