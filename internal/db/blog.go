package db

import "time"

// BlogPost is one article. Slug is the public identifier; ID stays
// internal to the API and the view marker namespace.
type BlogPost struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt     string     `gorm:"not null" json:"excerpt"`
	Content     string     `gorm:"not null" json:"content"`
	Image       string     `gorm:"not null" json:"image"`
	Tags        []string   `gorm:"serializer:json" json:"tags"`
	AuthorID    uint       `gorm:"index" json:"authorId"`
	Author      Author     `json:"author"`
	IsPublished bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
	Views       uint64     `gorm:"default:0" json:"views"`
	ReadingTime int        `json:"readingTime"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName pins the table name so the API and migrations agree.
func (BlogPost) TableName() string {
	return "blog_posts"
}
