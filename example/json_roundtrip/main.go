// Example: JSON Roundtrip shows serializing a parsed event stream to
// newline-delimited JSON and decoding it back.

package main

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/xemantic/markanywhere"
)

func main() {
	fmt.Println("Example 7: JSON Roundtrip")

	source := "# Hi\n\n**bold**\n"

	var buf bytes.Buffer
	var original []markanywhere.Event
	for e := range markanywhere.Parse(chunks(source)) {
		original = append(original, e)
		if err := markanywhere.EncodeJSON(&buf, e); err != nil {
			panic(err)
		}
		buf.WriteByte('\n')
	}

	fmt.Print(buf.String())

	var decoded []markanywhere.Event
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		e, err := markanywhere.DecodeJSON(bytes.NewReader(scanner.Bytes()))
		if err != nil {
			break
		}
		decoded = append(decoded, e)
	}

	fmt.Printf("round-tripped %d of %d events\n", len(decoded), len(original))
}

func chunks(s string) func(func(string) bool) {
	return func(yield func(string) bool) {
		yield(s)
	}
}
