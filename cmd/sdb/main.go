package main

import (
	"fmt"
	"os"

	"github.com/jacentio/simpledb/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sdb:", err)
		os.Exit(1)
	}
}
