// Command adduser manages user accounts directly against the credential
// store. Seed and demo accounts are created here, never inside the
// authentication path.
//
// Usage:
//
//	adduser create <username> <password> <role>
//	adduser list
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/swasthya/child-health-system/internal/core/service"
	"github.com/swasthya/child-health-system/internal/infrastructure/config"
	mongodb "github.com/swasthya/child-health-system/internal/infrastructure/db/mongo"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		fail("mongodb connection failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	repo := mongodb.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		fail("failed to create user indexes: %v", err)
	}

	switch os.Args[1] {
	case "create":
		if len(os.Args) != 5 {
			usage()
			os.Exit(2)
		}
		svc := service.NewAuthService(repo, service.BcryptVerifier{}, "", 0)
		user, err := svc.Register(ctx, os.Args[2], os.Args[3], os.Args[4])
		if err != nil {
			fail("create user: %v", err)
		}
		fmt.Printf("created user %s (id=%s, role=%s)\n", user.Username, user.ID, user.Role)

	case "list":
		users, err := repo.List(ctx)
		if err != nil {
			fail("list users: %v", err)
		}
		for _, u := range users {
			fmt.Printf("%-24s  %-8s  %-6s  %s\n", u.ID, u.Username, u.Role, u.CreatedAt.Format(time.RFC3339))
		}

	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  adduser create <username> <password> <role>")
	fmt.Fprintln(os.Stderr, "  adduser list")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
