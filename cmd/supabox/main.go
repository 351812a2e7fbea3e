// Command supabox prints upcoming boxing and MMA events in the terminal.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	_ = godotenv.Load()

	root := newRootCmd(newEventService, os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		// 取得失敗はすでに表示済み
		if !errors.Is(err, errFetchFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
