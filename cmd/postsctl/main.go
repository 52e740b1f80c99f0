package main

import (
	"fmt"
	"os"

	"github.com/BloggingApp/post-web/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
