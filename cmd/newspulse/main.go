package main

import (
	"context"
	"fmt"
	"os"

	"NewsPulse/internal/cli"
)

func main() {
	root := cli.NewRootCommand(os.Stdout, os.Stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
