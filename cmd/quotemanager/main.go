package main

import (
	"os"

	"github.com/bher20/quotemanager/cmd/quotemanager/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
