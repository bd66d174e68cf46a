package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xemantic/markanywhere"
	"github.com/xemantic/markanywhere/plugin/required"
)

var requireAttrs []string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse source into newline-delimited JSON events",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringArrayVar(&requireAttrs, "require", nil,
		`require an attribute on a tag, as "tagName:attrName" (repeatable)`)
}

func runParse(cmd *cobra.Command, args []string) error {
	r, closeFn, err := openInput(args)
	if err != nil {
		return err
	}
	defer closeFn()

	chunks, err := readChunks(r)
	if err != nil {
		return err
	}

	events := markanywhere.Parse(chunks)
	if len(requireAttrs) > 0 {
		spec, err := parseRequireFlags(requireAttrs)
		if err != nil {
			return err
		}
		events = markanywhere.ParseWithPlugins(chunks, required.New(spec))
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	for e := range events {
		if err := markanywhere.EncodeJSON(out, e); err != nil {
			logger.Error("failed to encode event", "error", err)
			return err
		}
		out.WriteByte('\n')
	}
	return nil
}

// parseRequireFlags turns repeated "tagName:attrName" flags into the
// map[string][]string shape required.New expects.
func parseRequireFlags(flags []string) (map[string][]string, error) {
	spec := map[string][]string{}
	for _, f := range flags {
		tag, attr, ok := cut(f, ':')
		if !ok || tag == "" || attr == "" {
			return nil, fmt.Errorf("markanywhere: --require value %q must be \"tagName:attrName\"", f)
		}
		spec[tag] = append(spec[tag], attr)
	}
	return spec, nil
}

// cut splits s at the last sep, so a namespaced tag name such as
// "ns:widget" keeps its own colon.
func cut(s string, sep byte) (before, after string, found bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

func openInput(args []string) (r *os.File, closeFn func(), err error) {
	if len(args) == 0 {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
