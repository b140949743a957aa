package users

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// CanManageKits — привилегия работы с комплектами. Она же открывает доступ
// к позициям распределительных центров.
func (r Role) CanManageKits() bool {
	return r == RoleAdmin || r == RoleManager
}

type User struct {
	ID        string
	Login     string
	FullName  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
