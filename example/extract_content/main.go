// Example: Extract Content shows pulling the raw text of one custom
// markup tag out of a larger document while passing every event
// through unchanged downstream.

package main

import (
	"fmt"

	"github.com/xemantic/markanywhere"
)

func main() {
	fmt.Println("Example 6: Extract Content")

	source := "# Snippet\n\n<ex:code>fmt.Println(\"hi\")</ex:code>\n\nSee above.\n"

	x := markanywhere.NewMarkupContentExtractor("ex:code")
	for range markanywhere.Extract(markanywhere.Parse(chunks(source)), x) {
		// draining the stream drives the extractor as a side effect
	}

	fmt.Printf("succeeded: %v\n", x.Succeeded)
	fmt.Printf("content:   %q\n", x.Content)
}

func chunks(s string) func(func(string) bool) {
	return func(yield func(string) bool) {
		yield(s)
	}
}
