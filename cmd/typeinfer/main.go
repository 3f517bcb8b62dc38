// Command typeinfer evaluates generic type argument inference scenarios.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "typeinfer:", err)
		os.Exit(1)
	}
}
