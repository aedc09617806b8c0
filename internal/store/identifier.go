package store

import (
	"fmt"

	"github.com/solverhub/apiserver/types"
)

// identifierClause resolves a dual id-or-uuid identifier into a single
// SQL predicate and its bound argument. ord is the placeholder ordinal
// the fragment should use.
func identifierClause(ident types.Identifier, ord int) (string, any) {
	if ident.IsUUID() {
		return fmt.Sprintf("uuid = $%d", ord), ident.UUID()
	}
	return fmt.Sprintf("id = $%d", ord), ident.ID()
}
