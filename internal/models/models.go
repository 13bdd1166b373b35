package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

const (
	ProductNameMin = 3
	ProductNameMax = 50
)

// ValidationError carries field -> message pairs for a rejected document.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type User struct {
	ID           string `gorm:"primaryKey;size:36"       bson:"_id"      json:"id"`
	Username     string `gorm:"uniqueIndex;not null"     bson:"username" json:"username"`
	PasswordHash string `gorm:"not null"                 bson:"password" json:"-"`
	Role         string `gorm:"not null;default:customer" bson:"role"     json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCustomer
}

type Category struct {
	ID          string `gorm:"primaryKey;size:36" bson:"_id"         json:"id"`
	Name        string `gorm:"not null"           bson:"name"        json:"name"`
	Description string `                          bson:"description" json:"description,omitempty"`
}

func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Fields: map[string]string{"name": "Name is required"}}
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	return c.Validate()
}

type Product struct {
	ID          string  `gorm:"primaryKey;size:36"    bson:"_id"         json:"id"`
	Name        string  `gorm:"not null;index"        bson:"name"        json:"name"`
	Price       float64 `gorm:"not null"              bson:"price"       json:"price"`
	Image       string  `                             bson:"image"       json:"image,omitempty"`
	Description string  `                             bson:"description" json:"description,omitempty"`
	CategoryID  string  `gorm:"index;not null;size:36" bson:"category"    json:"category"`
}

// Validate checks the document-level constraints; the category reference is
// checked separately against the store.
func (p *Product) Validate() error {
	fields := map[string]string{}

	name := strings.TrimSpace(p.Name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		fields["name"] = "Name is required"
	case n < ProductNameMin:
		fields["name"] = fmt.Sprintf("Name must be at least %d characters long", ProductNameMin)
	case n > ProductNameMax:
		fields["name"] = fmt.Sprintf("Name must be at most %d characters long", ProductNameMax)
	}

	switch {
	case math.IsNaN(p.Price) || math.IsInf(p.Price, 0):
		fields["price"] = "Price must be a number"
	case p.Price < 0:
		fields["price"] = "Price must be a positive number"
	}

	if p.CategoryID == "" {
		fields["category"] = "Category is required"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	return p.Validate()
}

// SessionRecord is the persisted form of a browser session.
type SessionRecord struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Data      string    `gorm:"type:text;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}
