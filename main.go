package main

import (
	"os"

	"github.com/etna-dt/twinhub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
