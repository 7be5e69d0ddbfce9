// Package main is the entry point for the describely CLI.
package main

import "describely.dev/pkg/describely/cmd"

func main() {
	cmd.Execute()
}
