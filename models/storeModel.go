package models

import "gorm.io/gorm"

type Store struct {
	gorm.Model
	Name         string `json:"name"`
	Slug         string `json:"slug" gorm:"uniqueIndex;size:191"`
	Description  string `json:"description"`
	Phone        string `json:"phone"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country"`
	IsActive     bool   `json:"isActive" gorm:"default:true"`
}
