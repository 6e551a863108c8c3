// main is the entry point of the check-hycu monitoring plugin.
package main

import (
	"os"

	"github.com/hycu-tools/check-hycu/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
