package main

import (
	"os"

	"github.com/kpauljoseph/invoice-renamer/cmd/invoice-renamer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
