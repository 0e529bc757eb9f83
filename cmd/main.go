package main

import (
	"os"

	"github.com/memograph/memograph/cmd/memograph"
)

func main() {
	if err := memograph.Execute(); err != nil {
		os.Exit(1)
	}
}
