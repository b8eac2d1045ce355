// filterattrs strips volatile attribute blocks from h5dump and ncdump output.
package main

import (
	"os"

	"github.com/ral-nujan/filterattrs/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
