package main

import (
	"os"

	"github.com/mikiheller/reading-comprehension/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
