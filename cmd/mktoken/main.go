// mktoken mints development tokens compatible with the user service's
// signing contract. Useful for exercising the API without a real login.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/udaysingh21/NGO-Postings-Service/internal/auth"
)

func main() {
	log.SetFlags(0)
	var (
		userID   = flag.Int64("user-id", 1, "userId claim")
		role     = flag.String("role", auth.RoleNGO, "role claim (NGO, ADMIN, VOLUNTEER)")
		username = flag.String("username", "dev@example.com", "sub claim")
		ttl      = flag.Duration("ttl", time.Hour, "token lifetime")
	)
	flag.Parse()

	secret := os.Getenv("NGO_POSTINGS_AUTH_SECRET")
	if secret == "" {
		log.Fatal("NGO_POSTINGS_AUTH_SECRET is required")
	}

	verifier, err := auth.NewVerifier(secret)
	if err != nil {
		log.Fatalf("secret: %v", err)
	}
	token, err := verifier.GenerateToken(*userID, *role, *username, *ttl)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	fmt.Println(token)
}
