// Package policy decides what an actor may do with posts and comments.
//
// The actor is the authenticated user of the current request, or nil for
// anonymous callers. Reads are public; writes require ownership.
package policy

import "blog-app/internal/domain"

// Owned is an entity with a single owning user.
type Owned interface {
	OwnerID() int64
}

func CanViewAny(actor *domain.User) bool { return true }

func CanView(actor *domain.User, post *domain.Post) bool { return true }

// CanCreate allows any authenticated actor to create posts and comments.
func CanCreate(actor *domain.User) bool {
	return actor != nil
}

// CanUpdate allows only the owner. There is no admin override.
func CanUpdate(actor *domain.User, entity Owned) bool {
	return owns(actor, entity)
}

// CanDelete allows only the owner.
func CanDelete(actor *domain.User, entity Owned) bool {
	return owns(actor, entity)
}

// Authorize turns a policy verdict into an *domain.AuthorizationError.
func Authorize(allowed bool, action, entity string) error {
	if allowed {
		return nil
	}
	return &domain.AuthorizationError{Action: action, Entity: entity}
}

func owns(actor *domain.User, entity Owned) bool {
	if actor == nil || isNil(entity) {
		return false
	}
	return actor.ID == entity.OwnerID()
}

func isNil(entity Owned) bool {
	switch e := entity.(type) {
	case nil:
		return true
	case *domain.Post:
		return e == nil
	case *domain.Comment:
		return e == nil
	}
	return false
}
