package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"

	"github.com/MrSnakeDoc/haven/internal/app"
)

func main() {
	// A missing .env is fine, the environment alone can configure haven.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("❌ failed to read .env: %v", err)
	}

	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ haven failed to start: %v", err)
	}
}
