package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studylog/internal/config"
	"github.com/studylog/internal/db"
	"github.com/studylog/internal/router"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type blogPayload struct {
	ID          uint       `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
	Views       uint64     `json:"views"`
	HTML        string     `json:"html"`
	Author      struct {
		Name    string `json:"name"`
		Picture string `json:"picture"`
	} `json:"author"`
}

func startServer(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf("file:e2e-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.User{}, &db.Author{}, &db.BlogPost{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	db.DB = gdb

	hashed, err := bcrypt.GenerateFromPassword([]byte("e2e-password"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := gdb.Create(&db.User{Username: "e2e-admin", Password: string(hashed)}).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	if _, err := db.EnsureAuthor("E2E Author", "https://example.com/e2e.png"); err != nil {
		t.Fatalf("failed to seed author: %v", err)
	}

	srv := httptest.NewServer(router.SetupRouter(config.AppConfig{
		SessionSecret: "e2e-secret",
		UploadDir:     t.TempDir(),
		UploadURLPath: "/static/uploads",
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newJarClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp, buf.Bytes()
}

func login(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()
	resp, body := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/login", map[string]string{
		"username": "e2e-admin",
		"password": "e2e-password",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", resp.StatusCode, body)
	}
}

func TestBlogLifecycle(t *testing.T) {
	srv := startServer(t)

	admin := newJarClient(t)
	login(t, admin, srv.URL)

	// Create a draft: publishedAt must stay null.
	resp, body := doJSON(t, admin, http.MethodPost, srv.URL+"/api/blogs", map[string]any{
		"title":   "Intro to AI",
		"slug":    "intro-to-ai",
		"excerpt": "Getting started with AI-generated quizzes.",
		"content": "# Intro to AI\n\nWelcome to the course blog.",
		"image":   "https://example.com/ai.jpg",
		"tags":    []string{"ai", "quiz"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.StatusCode, body)
	}
	var created blogPayload
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode created post: %v", err)
	}
	if created.PublishedAt != nil {
		t.Fatalf("draft has publishedAt: %v", created.PublishedAt)
	}

	// Drafts are invisible to the public listing.
	public := newJarClient(t)
	resp, body = doJSON(t, public, http.MethodGet, srv.URL+"/api/blogs", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	var listing []blogPayload
	if err := json.Unmarshal(body, &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing) != 0 {
		t.Fatalf("draft leaked into public listing: %+v", listing)
	}

	// Publish: publishedAt gets stamped near now.
	before := time.Now().UTC()
	resp, body = doJSON(t, admin, http.MethodPut, fmt.Sprintf("%s/api/blogs/%d", srv.URL, created.ID), map[string]any{
		"isPublished": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("publish: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var published blogPayload
	if err := json.Unmarshal(body, &published); err != nil {
		t.Fatalf("decode published post: %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatal("expected publishedAt after publishing")
	}
	if published.PublishedAt.Before(before.Add(-5 * time.Second)) {
		t.Fatalf("publishedAt is not recent: %v", published.PublishedAt)
	}

	// First public fetch counts a view and leaves a marker in the jar.
	resp, body = doJSON(t, public, http.MethodGet, srv.URL+"/api/blogs/intro-to-ai", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fetch: expected 200, got %d", resp.StatusCode)
	}
	var fetched blogPayload
	if err := json.Unmarshal(body, &fetched); err != nil {
		t.Fatalf("decode fetched post: %v", err)
	}
	if fetched.Views != 1 {
		t.Fatalf("expected 1 view after first fetch, got %d", fetched.Views)
	}
	if fetched.HTML == "" {
		t.Fatal("expected rendered html")
	}
	if fetched.Author.Name != "E2E Author" {
		t.Fatalf("expected populated author, got %q", fetched.Author.Name)
	}

	// Second fetch from the same client presents the marker: no count.
	resp, body = doJSON(t, public, http.MethodGet, srv.URL+"/api/blogs/intro-to-ai", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refetch: expected 200, got %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &fetched); err != nil {
		t.Fatalf("decode refetched post: %v", err)
	}
	if fetched.Views != 1 {
		t.Fatalf("duplicate view counted: %d", fetched.Views)
	}

	// A different client without the marker counts again.
	other := newJarClient(t)
	resp, body = doJSON(t, other, http.MethodGet, srv.URL+"/api/blogs/intro-to-ai", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("other client fetch: expected 200, got %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &fetched); err != nil {
		t.Fatalf("decode other client fetch: %v", err)
	}
	if fetched.Views != 2 {
		t.Fatalf("expected 2 views from a fresh client, got %d", fetched.Views)
	}

	// Delete, then the slug is gone.
	resp, _ = doJSON(t, admin, http.MethodDelete, fmt.Sprintf("%s/api/blogs/%d", srv.URL, created.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, public, http.MethodGet, srv.URL+"/api/blogs/intro-to-ai", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("fetch after delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestUnpublishKeepsFirstPublishedAt(t *testing.T) {
	srv := startServer(t)

	admin := newJarClient(t)
	login(t, admin, srv.URL)

	resp, body := doJSON(t, admin, http.MethodPost, srv.URL+"/api/blogs", map[string]any{
		"title":       "Oscillating Post",
		"slug":        "oscillating-post",
		"excerpt":     "Now you see it.",
		"content":     "Published, hidden, published again.",
		"image":       "https://example.com/osc.jpg",
		"isPublished": true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.StatusCode, body)
	}
	var post blogPayload
	if err := json.Unmarshal(body, &post); err != nil {
		t.Fatalf("decode created post: %v", err)
	}
	first := post.PublishedAt
	if first == nil {
		t.Fatal("expected publishedAt at creation")
	}

	url := fmt.Sprintf("%s/api/blogs/%d", srv.URL, post.ID)
	_, body = doJSON(t, admin, http.MethodPut, url, map[string]any{"isPublished": false})
	if err := json.Unmarshal(body, &post); err != nil {
		t.Fatalf("decode unpublished post: %v", err)
	}
	if post.IsPublished {
		t.Fatal("expected the post to be a draft again")
	}
	if post.PublishedAt == nil || !post.PublishedAt.Equal(*first) {
		t.Fatalf("unpublish changed publishedAt: %v != %v", post.PublishedAt, first)
	}

	_, body = doJSON(t, admin, http.MethodPut, url, map[string]any{"isPublished": true})
	if err := json.Unmarshal(body, &post); err != nil {
		t.Fatalf("decode republished post: %v", err)
	}
	if post.PublishedAt == nil || !post.PublishedAt.Equal(*first) {
		t.Fatalf("republish changed publishedAt: %v != %v", post.PublishedAt, first)
	}
}
