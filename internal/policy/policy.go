// Package policy decides who may see or change markers, tags, comments and
// users. Every function here is pure: callers load the rows, policy only
// compares ids, roles and visibility values.
package policy

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Visibility string

const (
	Public   Visibility = "public"
	Private  Visibility = "private"
	Unlisted Visibility = "unlisted"
)

func (v Visibility) Valid() bool {
	switch v {
	case Public, Private, Unlisted:
		return true
	}
	return false
}

// Principal is the caller of an operation. The zero value is an anonymous
// caller.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

var Anonymous = Principal{}

func (p Principal) Authenticated() bool {
	return p.ID != uuid.Nil
}

func (p Principal) IsAdmin() bool {
	return p.Authenticated() && p.Role == RoleAdmin
}

// Owns reports whether p is the owner identified by ownerID.
func (p Principal) Owns(ownerID uuid.UUID) bool {
	return p.Authenticated() && p.ID == ownerID
}

// Resource is anything with an owner and a visibility: markers and tags.
type Resource interface {
	OwnerRef() uuid.UUID
	VisibilityRef() Visibility
}

// CanViewMarker is the point-lookup rule: unlisted markers are readable by
// anyone holding a direct reference.
func CanViewMarker(p Principal, m Resource) bool {
	switch m.VisibilityRef() {
	case Public, Unlisted:
		return true
	}
	return p.Owns(m.OwnerRef()) || p.IsAdmin()
}

// ListsMarker is the rule for list results: unlisted markers only show up for
// their owner and admins.
func ListsMarker(p Principal, m Resource) bool {
	return m.VisibilityRef() == Public || p.Owns(m.OwnerRef()) || p.IsAdmin()
}

func CanViewTag(p Principal, t Resource) bool {
	return t.VisibilityRef() == Public || p.Owns(t.OwnerRef())
}

// CanMutate covers update and delete of markers and tags.
func CanMutate(p Principal, r Resource) bool {
	return p.Owns(r.OwnerRef()) || p.IsAdmin()
}

func CanDeleteComment(p Principal, authorID uuid.UUID) bool {
	return p.Owns(authorID) || p.IsAdmin()
}

func CanManageUser(p Principal, userID uuid.UUID) bool {
	return p.Owns(userID) || p.IsAdmin()
}

// MatchesTags implements the tag filter: an empty desired set matches
// everything, otherwise at least one of the item's tag keys must be desired.
func MatchesTags(itemKeys []string, desired map[string]struct{}) bool {
	if len(desired) == 0 {
		return true
	}
	for _, k := range itemKeys {
		if _, ok := desired[k]; ok {
			return true
		}
	}
	return false
}

// FilterListed keeps the items p may see in a list and drops repeated ids,
// so a public item owned by p appears once.
func FilterListed[T Resource](p Principal, items []T, id func(T) uuid.UUID) []T {
	seen := make(map[uuid.UUID]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !ListsMarker(p, it) {
			continue
		}
		k := id(it)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
