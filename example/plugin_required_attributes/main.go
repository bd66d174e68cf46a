// Example: Plugin Required Attributes demonstrates validating custom
// markup tags' attributes as they are parsed, stopping the stream on
// the first violation.

package main

import (
	"fmt"

	"github.com/xemantic/markanywhere"
	"github.com/xemantic/markanywhere/plugin/required"
)

func main() {
	fmt.Println("Example 5: Plugin Required Attributes")

	rule := required.New(map[string][]string{
		"ex:note": {"kind"},
	})

	valid := `<ex:note kind="tip">remember this</ex:note>`
	fmt.Println("Valid document:")
	for e := range markanywhere.ParseWithPlugins(chunks(valid), rule) {
		fmt.Printf("  %+v\n", e)
	}

	invalid := `<ex:note>missing its kind attribute</ex:note>`
	fmt.Println("Invalid document (stream stops before the offending tag):")
	for e := range markanywhere.ParseWithPlugins(chunks(invalid), rule) {
		fmt.Printf("  %+v\n", e)
	}
}

func chunks(s string) func(func(string) bool) {
	return func(yield func(string) bool) {
		yield(s)
	}
}
