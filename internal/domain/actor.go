package domain

import (
	"errors"
	"time"
)

// Role enumerates the three kinds of actor.
type Role string

const (
	RoleCitizen    Role = "citizen"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

var (
	ErrAdminWithoutDepartment = errors.New("admin requires a department")
	ErrDepartmentNotAllowed   = errors.New("only admins carry a department")
	ErrCredentialNotSealed    = errors.New("credential must be hashed before persistence")
)

// Actor is any identity that can authenticate: a citizen, a department admin, or the superadmin.
//
// Actors are built through NewCitizen, NewAdmin and NewSuperAdmin so that Department is
// set exactly when Role is RoleAdmin.
type Actor struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Address      string
	Role         Role
	Department   string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	pendingPassword string
}

// NewCitizen builds a self-registered citizen.
func NewCitizen(name, email, phone, address string) *Actor {
	return &Actor{Name: name, Email: email, Phone: phone, Address: address, Role: RoleCitizen, IsActive: true}
}

// NewAdmin builds a department admin.
func NewAdmin(name, email, department, phone string) *Actor {
	return &Actor{Name: name, Email: email, Phone: phone, Role: RoleAdmin, Department: department, IsActive: true}
}

// NewSuperAdmin builds the system-wide administrator.
func NewSuperAdmin(name, email string) *Actor {
	return &Actor{Name: name, Email: email, Role: RoleSuperAdmin, IsActive: true}
}

// Validate checks the role/department pairing.
func (a *Actor) Validate() error {
	if !a.Role.Valid() {
		return errors.New("unknown role")
	}
	if a.Role == RoleAdmin && a.Department == "" {
		return ErrAdminWithoutDepartment
	}
	if a.Role != RoleAdmin && a.Department != "" {
		return ErrDepartmentNotAllowed
	}
	return nil
}

// IsStaff reports whether the actor is an admin or the superadmin.
func (a *Actor) IsStaff() bool {
	return a != nil && (a.Role == RoleAdmin || a.Role == RoleSuperAdmin)
}

// IsSuperAdmin reports whether the actor bypasses department scoping.
func (a *Actor) IsSuperAdmin() bool {
	return a != nil && a.Role == RoleSuperAdmin
}

// SetPassword stages a new plaintext credential. It must be sealed before the actor is persisted.
func (a *Actor) SetPassword(plain string) {
	a.pendingPassword = plain
}

// CredentialPending reports whether a staged plaintext credential still needs hashing.
func (a *Actor) CredentialPending() bool {
	return a.pendingPassword != ""
}

// SealCredential hashes a staged credential into PasswordHash. It is a no-op when nothing is staged.
func (a *Actor) SealCredential(hash func(string) (string, error)) error {
	if a.pendingPassword == "" {
		return nil
	}
	hashed, err := hash(a.pendingPassword)
	if err != nil {
		return err
	}
	a.PasswordHash = hashed
	a.pendingPassword = ""
	return nil
}
