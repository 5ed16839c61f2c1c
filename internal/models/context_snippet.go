package models

import (
	"regexp"
	"time"
)

// ContextSnippet is a named reusable text fragment. Referencing @name in a
// prompt template injects Content at resolution time. Name is unique per
// owner; the composite index makes the database enforce that.
type ContextSnippet struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_snippet_owner_name;not null" json:"user_id"`
	Name      string    `gorm:"uniqueIndex:idx_snippet_owner_name;not null" json:"name"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var snippetNameRe = regexp.MustCompile(`^@[\w-]+$`)

// ValidSnippetName reports whether name is of the form @word-chars-or-hyphens.
func ValidSnippetName(name string) bool {
	return snippetNameRe.MatchString(name)
}
