package models

import (
	"time"
)

// UserRole defines allowed staff roles in the system
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleWaiter  UserRole = "waiter"
	RoleKitchen UserRole = "kitchen"
)

// ManagerTier reports whether a role may bypass order locks and manage
// menus, tables and staff records.
func ManagerTier(role UserRole) bool {
	return role == RoleAdmin || role == RoleManager
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"not null;default:'waiter'"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
