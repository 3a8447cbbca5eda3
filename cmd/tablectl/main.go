package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/tableman/internal/cli"
	"github.com/JonMunkholm/tableman/internal/core"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		}
		os.Exit(1)
	}
}
