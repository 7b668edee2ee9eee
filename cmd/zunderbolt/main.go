// Command zunderbolt copies, inspects and compresses files through buffered
// file streams.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "zunderbolt:", err)
		os.Exit(1)
	}
}
