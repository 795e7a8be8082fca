// Package main is the entry point for the spvbuild CLI.
package main

import "spvbuild.dev/pkg/spvbuild/cmd"

func main() {
	cmd.Execute()
}
