// Gen-jwt prints a token the todo service accepts. Run from project root: go run ./scripts/gen-jwt
package main

import (
	"fmt"
	"os"
	"time"

	"todo-services/internal/config"
	"todo-services/internal/token"
)

func main() {
	_ = config.LoadEnvFile(".env")
	cfg := config.Get()

	secret := cfg.JWTSecret
	if secret == "" {
		secret = "change-me"
	}
	id := token.Identity{
		OwnerID: envOr("TOKEN_SUBJECT", "test-user"),
		Email:   envOr("TOKEN_EMAIL", "test-user@example.com"),
	}

	signed, err := token.Issue([]byte(secret), id, time.Now(), cfg.JWTExpiresIn)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Sign failed:", err)
		os.Exit(1)
	}
	fmt.Println(signed)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
