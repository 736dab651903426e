// Package policy decides what an actor may do with a complaint. Every function is pure.
package policy

import "github.com/spec-kit/publicvoice/internal/domain"

// CanView reports whether actor may read complaint.
func CanView(actor *domain.Actor, complaint *domain.Complaint) bool {
	if actor == nil || complaint == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return true
	case domain.RoleAdmin:
		return actor.Department != "" && actor.Department == complaint.Department
	default:
		return actor.ID == complaint.OwnerID
	}
}

// CanComment reports whether actor may append to the comment thread.
func CanComment(actor *domain.Actor, complaint *domain.Complaint) bool {
	return CanView(actor, complaint)
}

// CanMutateStatus reports whether actor's role allows status changes at all.
func CanMutateStatus(actor *domain.Actor) bool {
	return actor.IsStaff()
}

// CanAssign reports whether actor's role allows assignment at all.
func CanAssign(actor *domain.Actor) bool {
	return actor.IsStaff()
}

// WithinScope applies department scoping: admins only act on their own department.
func WithinScope(actor *domain.Actor, complaint *domain.Complaint) bool {
	if actor.IsSuperAdmin() {
		return true
	}
	return actor != nil && actor.Role == domain.RoleAdmin && actor.Department == complaint.Department
}

// CanUpdate combines the role check with department scoping for status/priority/department edits.
func CanUpdate(actor *domain.Actor, complaint *domain.Complaint) bool {
	return CanMutateStatus(actor) && WithinScope(actor, complaint)
}

// CanAssignComplaint combines the role check with department scoping for assignment.
func CanAssignComplaint(actor *domain.Actor, complaint *domain.Complaint) bool {
	return CanAssign(actor) && WithinScope(actor, complaint)
}

// ListScope returns the department filter an actor's staff listings are confined to.
// An empty string with ok=true means unrestricted.
func ListScope(actor *domain.Actor) (department string, ok bool) {
	switch {
	case actor.IsSuperAdmin():
		return "", true
	case actor != nil && actor.Role == domain.RoleAdmin:
		return actor.Department, actor.Department != ""
	default:
		return "", false
	}
}
