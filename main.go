package main

import (
	"os"

	"github.com/vitgroww/roomie/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
