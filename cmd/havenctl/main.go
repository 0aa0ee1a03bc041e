package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	goflags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/MrSnakeDoc/haven/internal/cli"
	"github.com/MrSnakeDoc/haven/internal/version"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to read .env: %v", err)
	}

	if err := cli.Run(version.Version); err != nil {
		// go-flags already printed its own parse errors.
		var flagsErr *goflags.Error
		if !errors.As(err, &flagsErr) {
			fmt.Fprintf(os.Stderr, "havenctl: %v\n", err)
		}
		os.Exit(1)
	}
}
