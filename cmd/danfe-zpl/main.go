package main

import (
	"fmt"
	"os"

	"github.com/rezonia/danfe-zpl/cmd/danfe-zpl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
