package main

import (
	"os"
)

const (
	Version = "v0.1.0"
	License = "Apache-2.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
