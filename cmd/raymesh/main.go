// Command raymesh evaluates scene scripts and runs mesh context operations
// on the result: split, filter, partition, slice and dump.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "raymesh:", err)
		os.Exit(1)
	}
}
