// Command formskema validates form data against schemas with combinators.
package main

import (
	"os"

	"github.com/reoring/formskema/cmd/formskema/commands"
)

func main() {
	os.Exit(commands.Execute())
}
