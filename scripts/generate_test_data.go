package main

import (
	"fmt"
	"log"
	"time"

	"github.com/studylog/internal/config"
	"github.com/studylog/internal/db"
	"golang.org/x/crypto/bcrypt"
)

// Development data seeder: one admin, one author, a mix of published
// and draft posts.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration:", err)
	}
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("failed to initialize database:", err)
	}

	fmt.Println("seeding development data...")

	createAdmin()
	authorID := createAuthor()
	createPosts(authorID)

	fmt.Println("done")
	fmt.Println("admin: admin (password: admin123)")
}

func createAdmin() {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("admin already exists, skipping")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("failed to hash password:", err)
	}
	if err := db.DB.Create(&db.User{Username: "admin", Password: string(hashed)}).Error; err != nil {
		log.Fatal("failed to create admin:", err)
	}
}

func createAuthor() uint {
	id, err := db.EnsureAuthor("Demo Author", "https://i.pravatar.cc/150?img=12")
	if err != nil {
		log.Fatal("failed to create author:", err)
	}
	return id
}

func createPosts(authorID uint) {
	var count int64
	db.DB.Model(&db.BlogPost{}).Count(&count)
	if count > 0 {
		fmt.Println("posts already exist, skipping")
		return
	}

	now := time.Now().UTC()
	samples := []db.BlogPost{
		{
			Title:       "How Spaced Repetition Actually Works",
			Slug:        "how-spaced-repetition-works",
			Excerpt:     "The science behind review intervals.",
			Content:     "# Spaced repetition\n\nReviewing right before you forget beats cramming.",
			Image:       "https://images.unsplash.com/photo-1456513080510-7bf3a84b82f8",
			Tags:        []string{"learning", "memory"},
			AuthorID:    authorID,
			IsPublished: true,
			PublishedAt: &now,
		},
		{
			Title:       "Writing Better Flashcards",
			Slug:        "writing-better-flashcards",
			Excerpt:     "One fact per card, always.",
			Content:     "# Flashcards\n\nAtomic cards are easier to grade honestly.",
			Image:       "https://images.unsplash.com/photo-1503676260728-1c00da094a0b",
			Tags:        []string{"flashcards", "tips"},
			AuthorID:    authorID,
			IsPublished: true,
			PublishedAt: &now,
		},
		{
			Title:       "Upcoming Quiz Modes",
			Slug:        "upcoming-quiz-modes",
			Excerpt:     "A peek at what we are building next.",
			Content:     "# Roadmap\n\nTimed quizzes and team leaderboards are in the works.",
			Image:       "https://images.unsplash.com/photo-1434030216411-0b793f4b4173",
			Tags:        []string{"product"},
			AuthorID:    authorID,
			IsPublished: false,
		},
	}

	for i := range samples {
		if err := db.DB.Create(&samples[i]).Error; err != nil {
			log.Fatal("failed to create post:", err)
		}
	}
	fmt.Printf("created %d posts\n", len(samples))
}
