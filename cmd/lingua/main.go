package main

import (
	"os"

	"github.com/dmitrymomot/lingua/cmd/lingua/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
