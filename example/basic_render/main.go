// Example: Basic Render demonstrates parsing source and rendering it
// back in both pretty and compact form.

package main

import (
	"fmt"

	"github.com/xemantic/markanywhere"
	"github.com/xemantic/markanywhere/option"
)

func main() {
	fmt.Println("Example 2: Basic Render")

	source := "# Title\n\nHello **world**!\n"

	pretty, err := markanywhere.Render(markanywhere.Parse(chunks(source)))
	if err != nil {
		panic(err)
	}
	fmt.Printf("Pretty:\n%s\n\n", pretty)

	compact, err := markanywhere.Render(markanywhere.Parse(chunks(source)), option.Compact)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Compact:\n%s\n", compact)
}

func chunks(s string) func(func(string) bool) {
	return func(yield func(string) bool) {
		yield(s)
	}
}
