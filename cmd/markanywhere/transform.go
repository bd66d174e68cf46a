package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xemantic/markanywhere"
)

var transformRule string

var transformCmd = &cobra.Command{
	Use:   "transform [file]",
	Short: "Parse source, apply a built-in transform rule, and render the result",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTransform,
}

func init() {
	transformCmd.Flags().StringVar(&transformRule, "rule", "strip-tags",
		`transform to apply: "strip-tags" (drop custom markup tags, keep their children)`)
}

// builtinTransformers exposes concrete, demonstrable transforms
// through the CLI; "strip-tags" is currently the only one. The transform rule engine itself is
// generic and arbitrary rule sets are only reachable by calling
// BuildTransformer from Go; the flag surface here just picks among a
// fixed menu of useful ones rather than inventing a rule DSL.
var builtinTransformers = map[string]*markanywhere.Transformer{
	"strip-tags": markanywhere.BuildTransformer(func(b *markanywhere.TransformerBuilder) {
		b.MatchFunc(func(name string, isTag bool, attrs *markanywhere.Attributes) bool {
			return isTag
		}, func(h *markanywhere.Handler, name string, isTag bool, attrs *markanywhere.Attributes) {
			h.Children(markanywhere.RootMode)
		})
	}),
}

func runTransform(cmd *cobra.Command, args []string) error {
	t, ok := builtinTransformers[transformRule]
	if !ok {
		return fmt.Errorf("markanywhere: unknown --rule %q", transformRule)
	}

	r, closeFn, err := openInput(args)
	if err != nil {
		return err
	}
	defer closeFn()

	chunks, err := readChunks(r)
	if err != nil {
		return err
	}

	events := markanywhere.Transform(markanywhere.Parse(chunks), t)
	out, err := markanywhere.Render(events)
	if err != nil {
		logger.Error("transform failed", "error", err)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
