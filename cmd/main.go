package main

import (
	"os"

	"lecture-quiz/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
