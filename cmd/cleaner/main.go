// Package main provides the cleaner command-line tool for scraped robot vacuum listings.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
