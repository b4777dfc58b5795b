package models

import "gorm.io/gorm"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
	RoleStore    Role = "STORE"
)

type User struct {
	gorm.Model
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex;size:191"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role" gorm:"type:varchar(20);default:'CUSTOMER'"`
}
