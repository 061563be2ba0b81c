// Command listingmatch resolves third-party retailer listings against a
// canonical product catalog.
package main

import (
	"os"

	"github.com/sortable/listingmatch/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
