package main

import (
	"os"

	"github.com/lingodeck/lingodeck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
