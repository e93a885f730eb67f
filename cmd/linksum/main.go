package main

import (
	"fmt"
	"os"

	"linksum/cmd/linksum/cmd"
	"linksum/internal/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration warning: %v\n", err)
	}
	cmd.Execute()
}
