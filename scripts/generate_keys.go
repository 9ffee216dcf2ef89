//go:build ignore

// This script generates secure random keys for JWT authentication.
// Run with: go run scripts/generate_keys.go
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

func main() {
	fmt.Println("=== Journiv Key Generator ===")
	fmt.Println()

	jwtSecret, err := generateSecureKey(32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating JWT secret: %v\n", err)
		os.Exit(1)
	}

	refreshSecret, err := generateSecureKey(32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating refresh secret: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Add these to your environment:")
	fmt.Println()
	fmt.Printf("export JWT_SECRET_KEY=%q\n", jwtSecret)
	fmt.Printf("export JWT_REFRESH_SECRET_KEY=%q\n", refreshSecret)
}
