package main

import (
	"os"

	"github.com/pentatonicway/ear-trainer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
