package main

import (
	"os"

	"github.com/abhisek/studytutor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
