// Package main is the entry point of gl-smartsort, a tool that rewrites
// GL Strings into a canonical order.
package main

import "github.com/nmdp-bioinformatics/gl-smartsort/cmd"

func main() {
	cmd.Execute()
}
