package service

import (
	"errors"
	"strings"
	"time"

	"github.com/studylog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrBlogNotFound   = errors.New("blog not found")
	ErrAuthorNotFound = errors.New("author not found")
	ErrSlugTaken      = errors.New("Blog with this slug already exists")
)

// ValidationError collects per-field schema violations. The HTTP layer
// renders them as a single comma-separated message.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, ", ")
}

// BlogService wraps blog post database operations.
type BlogService struct {
	db *gorm.DB
}

// BlogInput carries the fields accepted when creating a post.
type BlogInput struct {
	Title       string
	Slug        string
	Excerpt     string
	Content     string
	Image       string
	Tags        []string
	AuthorID    uint
	IsPublished bool
}

// BlogUpdate carries a partial update. Empty string fields and a nil
// Tags slice keep the stored value; IsPublished is a pointer because
// false is a meaningful transition (unpublish), not an omission.
type BlogUpdate struct {
	Title       string
	Slug        string
	Excerpt     string
	Content     string
	Image       string
	Tags        []string
	IsPublished *bool
}

// NewBlogService creates a BlogService instance.
func NewBlogService(gdb *gorm.DB) *BlogService {
	return &BlogService{db: gdb}
}

// ListPublished returns published posts with authors populated, newest
// publication first.
func (s *BlogService) ListPublished() ([]db.BlogPost, error) {
	var posts []db.BlogPost
	if err := s.db.Preload("Author").
		Where("is_published = ?", true).
		Order("published_at desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListAll returns every post including drafts, most viewed first and
// newest first within equal view counts. Admin listing only.
func (s *BlogService) ListAll() ([]db.BlogPost, error) {
	var posts []db.BlogPost
	if err := s.db.Preload("Author").
		Order("views desc").
		Order("created_at desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetBySlug fetches one post by its slug with the author populated.
func (s *BlogService) GetBySlug(slug string) (*db.BlogPost, error) {
	var post db.BlogPost
	if err := s.db.Preload("Author").Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Get fetches one post by id with the author populated.
func (s *BlogService) Get(id uint) (*db.BlogPost, error) {
	var post db.BlogPost
	if err := s.db.Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create persists a new post after validating required fields and the
// slug collision rule. A post created with IsPublished=true gets its
// PublishedAt stamped immediately.
func (s *BlogService) Create(input BlogInput) (*db.BlogPost, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(input.Slug)
	if err := s.checkSlugAvailable(slug, 0); err != nil {
		return nil, err
	}

	post := db.BlogPost{
		Title:       strings.TrimSpace(input.Title),
		Slug:        slug,
		Excerpt:     strings.TrimSpace(input.Excerpt),
		Content:     input.Content,
		Image:       strings.TrimSpace(input.Image),
		Tags:        input.Tags,
		AuthorID:    input.AuthorID,
		IsPublished: input.IsPublished,
		ReadingTime: calculateReadingTime(input.Content),
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if input.IsPublished {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}

	return s.Get(post.ID)
}

// Update applies a partial update. PublishedAt is stamped on the first
// draft-to-published transition only; unpublishing and republishing
// leave the original timestamp alone.
func (s *BlogService) Update(id uint, input BlogUpdate) (*db.BlogPost, error) {
	var existing db.BlogPost
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	if slug := strings.TrimSpace(input.Slug); slug != "" && slug != existing.Slug {
		if err := s.checkSlugAvailable(slug, existing.ID); err != nil {
			return nil, err
		}
		existing.Slug = slug
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		existing.Title = title
	}
	if excerpt := strings.TrimSpace(input.Excerpt); excerpt != "" {
		existing.Excerpt = excerpt
	}
	if input.Content != "" {
		existing.Content = input.Content
		existing.ReadingTime = calculateReadingTime(input.Content)
	}
	if image := strings.TrimSpace(input.Image); image != "" {
		existing.Image = image
	}
	if input.Tags != nil {
		existing.Tags = input.Tags
	}

	if input.IsPublished != nil {
		publish := *input.IsPublished
		if publish && !existing.IsPublished && existing.PublishedAt == nil {
			now := time.Now().UTC()
			existing.PublishedAt = &now
		}
		existing.IsPublished = publish
	}

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, err
	}

	return s.Get(existing.ID)
}

// Delete removes a post by id. Hard delete, no tombstone.
func (s *BlogService) Delete(id uint) error {
	result := s.db.Delete(&db.BlogPost{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// RegisterView counts one qualifying view for the post. The increment
// is a single UPDATE at the storage layer so concurrent views never
// lose counts, and the post is re-read afterwards so the caller sees
// the persisted value.
func (s *BlogService) RegisterView(id uint) (*db.BlogPost, error) {
	result := s.db.Model(&db.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrBlogNotFound
	}

	return s.Get(id)
}

func (s *BlogService) checkSlugAvailable(slug string, excludeID uint) error {
	query := s.db.Model(&db.BlogPost{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}

func validateInput(input BlogInput) error {
	var fields []string
	if strings.TrimSpace(input.Title) == "" {
		fields = append(fields, "title is required")
	}
	if strings.TrimSpace(input.Slug) == "" {
		fields = append(fields, "slug is required")
	}
	if strings.TrimSpace(input.Excerpt) == "" {
		fields = append(fields, "excerpt is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		fields = append(fields, "content is required")
	}
	if strings.TrimSpace(input.Image) == "" {
		fields = append(fields, "image is required")
	}
	if input.AuthorID == 0 {
		fields = append(fields, "author is required")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
