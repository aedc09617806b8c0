package types

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Identifier addresses an entity by either its database-local id or its
// public uuid. It is parsed once at the transport boundary and resolved
// into a single predicate at the store boundary.
type Identifier struct {
	id     int64
	uid    uuid.UUID
	byUUID bool
}

// ByID builds an identifier from a database-local id.
func ByID(id int64) Identifier {
	return Identifier{id: id}
}

// ByUUID builds an identifier from a public uuid.
func ByUUID(uid uuid.UUID) Identifier {
	return Identifier{uid: uid, byUUID: true}
}

// ParseIdentifier interprets raw as a uuid when it parses as one,
// otherwise as a positive integer id.
func ParseIdentifier(raw string) (Identifier, error) {
	if uid, err := uuid.Parse(raw); err == nil {
		return ByUUID(uid), nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return Identifier{}, errors.New("invalid identifier")
	}
	return ByID(id), nil
}

// IsUUID reports whether the identifier addresses by uuid.
func (i Identifier) IsUUID() bool { return i.byUUID }

// ID returns the database-local id. Only meaningful when IsUUID is false.
func (i Identifier) ID() int64 { return i.id }

// UUID returns the public uuid. Only meaningful when IsUUID is true.
func (i Identifier) UUID() uuid.UUID { return i.uid }

// String renders the identifier in the form it was addressed by.
func (i Identifier) String() string {
	if i.byUUID {
		return i.uid.String()
	}
	return fmt.Sprintf("%d", i.id)
}
