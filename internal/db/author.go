package db

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Author is the byline attached to posts. Posts hold a non-owning
// reference; deleting a post never touches its author.
type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Picture   string    `json:"picture"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// EnsureAuthor creates the named author if it does not exist yet and
// returns its id. Used to seed the default byline at startup.
func EnsureAuthor(name, picture string) (uint, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return 0, nil
	}

	if DB == nil {
		return 0, errors.New("database not initialized")
	}

	var existing Author
	err := DB.Where("name = ?", trimmedName).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	author := Author{Name: trimmedName, Picture: strings.TrimSpace(picture)}
	if err := DB.Create(&author).Error; err != nil {
		return 0, err
	}
	return author.ID, nil
}
