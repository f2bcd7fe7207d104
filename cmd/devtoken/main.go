// Command devtoken prints a signed bearer token for a user id, for local testing
// against a server running with AUTH_MODE=jwt.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	mw "github.com/fkhayef/giftexchange/pkg/middleware"
)

func main() {
	userID := flag.Int64("user", 0, "user id to put in the token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if *userID <= 0 {
		log.Fatal("-user must be a positive user id")
	}

	token, err := mw.IssueToken(secret, *userID, *ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Println(token)
}
