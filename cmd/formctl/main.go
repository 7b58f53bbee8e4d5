// Command formctl detects, extracts and fills forms in HTML pages and PDFs
// from the shell, and drives the form backend's question flow.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
