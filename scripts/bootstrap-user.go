// Command bootstrap-user creates an account directly against the database
// and prints a session token for it. Existing accounts are logged in instead.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/notekeep/notekeep/internal/auth"
	"github.com/notekeep/notekeep/internal/repository"
	"github.com/notekeep/notekeep/internal/service"
)

type output struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Created     bool   `json:"created"`
	AccessToken string `json:"access_token"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		secret      = flag.String("session-secret", os.Getenv("SESSION_SECRET"), "HS256 session signing secret")
		issuer      = flag.String("session-issuer", envOrDefault("SESSION_ISSUER", "notekeep"), "Session token issuer")
		ttl         = flag.Duration("session-ttl", 24*time.Hour, "Session token lifetime")
		fullName    = flag.String("name", "Demo User", "Full name")
		email       = flag.String("email", "demo@notekeep.local", "Account email")
		password    = flag.String("password", os.Getenv("NOTEKEEP_PASSWORD"), "Account password")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fail("DATABASE_URL is required")
	}
	if *password == "" {
		fail("a password is required (-password or NOTEKEEP_PASSWORD)")
	}

	sessions, err := auth.NewSessionIssuer(*secret, *issuer, *ttl)
	if err != nil {
		fail("session issuer:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL, repository.PoolOptions{MaxConns: 2, MinConns: 1})
	if err != nil {
		fail("connect database:", err)
	}
	defer repo.Close()

	accounts := service.NewAccountService(
		repo,
		auth.NewPasswordHasher(auth.AlgorithmBcrypt, auth.DefaultBcryptCost),
		sessions,
		nil,
	)

	created := true
	result, err := accounts.Register(ctx, service.RegisterInput{
		FullName: *fullName,
		Email:    *email,
		Password: *password,
	})
	if errors.Is(err, service.ErrDuplicateUser) {
		created = false
		result, err = accounts.Login(ctx, service.LoginInput{Email: *email, Password: *password})
	}
	if err != nil {
		fail("bootstrap user:", err)
	}

	out := output{
		UserID:      result.User.ID,
		Email:       result.User.Email,
		Created:     created,
		AccessToken: result.AccessToken,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.AccessToken)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fail("invalid format; use plain or json")
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fail(args ...any) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}
