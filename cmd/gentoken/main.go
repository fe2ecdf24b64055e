// Command gentoken mints an HS256 access token signed with the
// project's JWT secret. It exists for local development and smoke
// tests against a running gateway.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	subject := flag.String("sub", "", "subject (user id) claim, required")
	secret := flag.String("secret", os.Getenv("SUPABASE_JWT_SECRET"), "signing secret (default: SUPABASE_JWT_SECRET)")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *subject == "" || *secret == "" {
		fmt.Fprintln(os.Stderr, "usage: gentoken -sub <user-id> [-secret <jwt-secret>] [-ttl 1h]")
		os.Exit(2)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   *subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(*secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
