// Example: Basic Parse demonstrates turning source text into a
// Text/Mark/Unmark event stream.

package main

import (
	"fmt"

	"github.com/xemantic/markanywhere"
)

func main() {
	fmt.Println("Example 1: Basic Parse")

	source := "# Hello\n\nWorld **bold** and <note kind=\"tip\">a tip</note>.\n"

	for e := range markanywhere.Parse(chunks(source)) {
		switch e.Kind {
		case markanywhere.TextEvent:
			fmt.Printf("text  %q\n", e.Text)
		case markanywhere.MarkEvent:
			fmt.Printf("mark  %s isTag=%v\n", e.Name, e.IsTag)
		case markanywhere.UnmarkEvent:
			fmt.Printf("unmark %s isTag=%v\n", e.Name, e.IsTag)
		}
	}
}

func chunks(s string) func(func(string) bool) {
	return func(yield func(string) bool) {
		yield(s)
	}
}
