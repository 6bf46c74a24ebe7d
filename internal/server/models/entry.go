// Package models defines server-side data models persisted in the database.
package models

import (
	"strings"
	"time"
)

// Category is the closed set of tags an entry can carry.
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryIdeas    Category = "ideas"
	CategoryGoals    Category = "goals"
)

// Categories lists every known category in display order.
var Categories = []Category{CategoryPersonal, CategoryWork, CategoryIdeas, CategoryGoals}

// ParseCategory normalizes s (trim, lower-case) and reports whether it names
// a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryIdeas, CategoryGoals:
		return true
	}
	return false
}

// Entry is a single journal record. ID, UserID and CreatedAt are fixed at
// creation; edits touch Title, Content, Category and UpdatedAt only.
type Entry struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Category  Category  `json:"category" db:"category"`
	CreatedAt time.Time `json:"date" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// EntryFilter narrows a listing. The zero value matches everything.
type EntryFilter struct {
	Category Category
}
