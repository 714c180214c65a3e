// Command hierodb is a thin CLI binding over the hierodb library: get,
// set, delete, ls, len, tables, export, import, and schema validate
// against a SQLite-backed database file.
package main

import (
	"fmt"
	"os"

	"github.com/pathkv/hierodb/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hierodb:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
