// Command storefrontctl inspects the configured menu and courier tiers and prices carts offline.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
