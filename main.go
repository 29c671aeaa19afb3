package main

import (
	"os"

	"github.com/SaadAmawi/VocalFlow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
