package main

import (
	"io"
	"iter"
)

// readChunks reads r to completion and exposes it to the parser as a
// single chunk. The parser itself is chunk-resumable and does not
// require the caller to split input in any particular way; a CLI
// invocation has the whole file available up front, so there is
// nothing to gain from pretending otherwise.
func readChunks(r io.Reader) (iter.Seq[string], error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return func(yield func(string) bool) {
		yield(s)
	}, nil
}
