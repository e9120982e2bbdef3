// Command inventory2datapackage converts the published datasets of a Socrata
// asset inventory export into Frictionless data packages.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
