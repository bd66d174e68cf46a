// Example: Build Events Programmatically shows constructing a
// structured document without parsing any source text, then
// rendering it the same way a parsed stream would be.

package main

import (
	"fmt"

	"github.com/xemantic/markanywhere"
)

func main() {
	fmt.Println("Example 3: Build Events Programmatically")

	events := markanywhere.BuildEvents(func(s *markanywhere.Scope) {
		s.Block("h1", nil, func(s *markanywhere.Scope) {
			s.Text("Report")
		})
		s.Block("ul", nil, func(s *markanywhere.Scope) {
			for _, item := range []string{"first", "second", "third"} {
				s.Block("li", nil, func(s *markanywhere.Scope) {
					s.Text(item)
				})
			}
		})
	})

	out, err := markanywhere.Render(events)
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
}
