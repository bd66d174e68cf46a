// Example: Transform HTML To Markdown rewrites an event stream
// produced from HTML-flavored marks into Markdown-flavored ones using
// a rule-based Transformer.

package main

import (
	"fmt"

	"github.com/xemantic/markanywhere"
)

func main() {
	fmt.Println("Example 4: Transform HTML to Markdown")

	events := markanywhere.BuildEvents(func(s *markanywhere.Scope) {
		s.Block("h1", nil, func(s *markanywhere.Scope) {
			s.Text("Title")
		})
		s.Block("p", nil, func(s *markanywhere.Scope) {
			s.Text("Hello ")
			s.Tag("strong", nil, func(s *markanywhere.Scope) {
				s.Text("world")
			})
			s.Text("!")
		})
	})

	toMarkdown := markanywhere.BuildTransformer(func(b *markanywhere.TransformerBuilder) {
		b.Match("h1", func(h *markanywhere.Handler, name string, isTag bool, attrs *markanywhere.Attributes) {
			h.Text("# ")
			h.Children(markanywhere.RootMode)
			h.Text("\n\n")
		})
		b.Match("p", func(h *markanywhere.Handler, name string, isTag bool, attrs *markanywhere.Attributes) {
			h.Children(markanywhere.RootMode)
			h.Text("\n\n")
		})
		b.Match("strong", func(h *markanywhere.Handler, name string, isTag bool, attrs *markanywhere.Attributes) {
			h.Text("*")
			h.Children(markanywhere.RootMode)
			h.Text("*")
		})
	})

	md, err := markanywhere.Render(markanywhere.Transform(events, toMarkdown))
	if err != nil {
		panic(err)
	}
	fmt.Printf("%q\n", md)
}
