// Command kondate generates meal plans from the terminal
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, buildService).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
