// File: cmd/furithread/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"os"

	"github.com/momentics/furi-thread/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
