// Command markanywhere parses Markdown interleaved with custom markup
// from stdin and renders, re-serializes, or transforms the resulting
// event stream.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
