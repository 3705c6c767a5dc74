// Command featurize runs the retail feature-engineering pipeline over the raw
// transaction, customer and article tables.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
