package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studylog/internal/db"
	"github.com/studylog/internal/service"
	"gorm.io/gorm"
)

const (
	// viewMarkerPrefix + post id names the dedup cookie, so the marker
	// is self-describing and needs no server-side index.
	viewMarkerPrefix = "viewed_blog_"
	viewMarkerMaxAge = 3600
)

type blogDetail struct {
	db.BlogPost
	HTML string `json:"html"`
}

func viewMarkerName(postID uint) string {
	return fmt.Sprintf("%s%d", viewMarkerPrefix, postID)
}

// defaultAuthorID resolves the seeded byline when a create request does
// not name an author explicitly.
func defaultAuthorID(gdb *gorm.DB) uint {
	var author db.Author
	if err := gdb.Order("id").First(&author).Error; err != nil {
		return 0
	}
	return author.ID
}

// ListBlogs returns published posts, newest publication first.
func (a *API) ListBlogs(c *gin.Context) {
	posts, err := a.blogs.ListPublished()
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// ListAllBlogs returns every post including drafts for the admin panel,
// ordered by views, then recency.
func (a *API) ListAllBlogs(c *gin.Context) {
	posts, err := a.blogs.ListAll()
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetBlogBySlug fetches one post and applies the view deduplication
// gate: a request without the post's marker cookie counts as a fresh
// view, increments the counter atomically and instructs the client to
// hold the marker for an hour. A request presenting the marker leaves
// the counter alone.
func (a *API) GetBlogBySlug(c *gin.Context) {
	post, err := a.blogs.GetBySlug(c.Param("slug"))
	if err != nil {
		c.Error(err)
		return
	}

	marker := viewMarkerName(post.ID)
	if _, err := c.Cookie(marker); err != nil {
		post, err = a.blogs.RegisterView(post.ID)
		if err != nil {
			c.Error(err)
			return
		}

		// The marker is an inert flag, not a security boundary. It is
		// kept away from page scripts and cross-site requests all the
		// same.
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     marker,
			Value:    "true",
			Path:     "/",
			MaxAge:   viewMarkerMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	rendered, err := service.RenderMarkdown(post.Content)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, blogDetail{BlogPost: *post, HTML: rendered})
}

// CreateBlog creates a post from an authorized request.
func (a *API) CreateBlog(c *gin.Context) {
	var body struct {
		Title       string   `json:"title"`
		Slug        string   `json:"slug"`
		Excerpt     string   `json:"excerpt"`
		Content     string   `json:"content"`
		Image       string   `json:"image"`
		Tags        []string `json:"tags"`
		AuthorID    uint     `json:"authorId"`
		IsPublished bool     `json:"isPublished"`
	}
	if !bindJSON(c, &body) {
		return
	}

	authorID := body.AuthorID
	if authorID == 0 {
		authorID = defaultAuthorID(a.db)
	}

	post, err := a.blogs.Create(service.BlogInput{
		Title:       body.Title,
		Slug:        body.Slug,
		Excerpt:     body.Excerpt,
		Content:     body.Content,
		Image:       body.Image,
		Tags:        body.Tags,
		AuthorID:    authorID,
		IsPublished: body.IsPublished,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdateBlog applies a partial update. Omitted or empty fields keep
// their stored values; isPublished drives the publication transitions.
func (a *API) UpdateBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var body struct {
		Title       string   `json:"title"`
		Slug        string   `json:"slug"`
		Excerpt     string   `json:"excerpt"`
		Content     string   `json:"content"`
		Image       string   `json:"image"`
		Tags        []string `json:"tags"`
		IsPublished *bool    `json:"isPublished"`
	}
	if !bindJSON(c, &body) {
		return
	}

	post, err := a.blogs.Update(id, service.BlogUpdate{
		Title:       body.Title,
		Slug:        body.Slug,
		Excerpt:     body.Excerpt,
		Content:     body.Content,
		Image:       body.Image,
		Tags:        body.Tags,
		IsPublished: body.IsPublished,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeleteBlog removes a post permanently.
func (a *API) DeleteBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := a.blogs.Delete(id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}
