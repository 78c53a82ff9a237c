package models

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RolePlayer UserRole = "player"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RolePlayer
}
