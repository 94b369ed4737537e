// Command pgcatdiff is the CLI entry point.
package main

import (
	"os"

	"github.com/nettrash/pgcatdiff/cmd/root"
)

func main() {
	root.Execute(os.Args[1:]...)
}
