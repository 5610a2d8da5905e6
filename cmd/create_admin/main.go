package main

import (
	"context"
	"flag"
	"log"
	"os"

	"tutorpay/internal/db"
	"tutorpay/internal/domain"
	"tutorpay/internal/repository"
	"tutorpay/internal/service"
)

func main() {
	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	firstName := flag.String("first-name", "Admin", "admin first name")
	lastName := flag.String("last-name", "User", "admin last name")
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("-email and -password are required")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	existing, err := repo.GetByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("lookup failed: %v", err)
	}
	if existing != nil {
		log.Fatalf("user already exists id=%s", existing.ID)
	}

	hash, err := service.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password failed: %v", err)
	}

	u := &domain.User{
		FirstName:    *firstName,
		LastName:     *lastName,
		PrimaryEmail: *email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatalf("create admin failed: %v", err)
	}
	log.Printf("admin created id=%s\n", u.ID)

	// print a ready-to-use token
	service.InitJWT(os.Getenv("JWT_SECRET"))
	token, err := service.GenerateJWT(u.ID, string(u.Role))
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
