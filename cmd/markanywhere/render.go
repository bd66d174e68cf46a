package main

import (
	"fmt"
	"iter"

	"github.com/spf13/cobra"

	"github.com/xemantic/markanywhere"
	"github.com/xemantic/markanywhere/option"
)

var (
	renderCompact bool
	renderIndent  int
	renderDiff    bool
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Parse source and render it back as pretty-printed markup",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().BoolVar(&renderCompact, "compact", false, "render without indentation or line breaks")
	renderCmd.Flags().IntVar(&renderIndent, "indent", 2, "spaces per indent level")
	renderCmd.Flags().BoolVar(&renderDiff, "diff", false,
		"before rendering, print one line per event (name, is_tag, attribute keys) to stderr")
}

func runRender(cmd *cobra.Command, args []string) error {
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
	if renderDiff {
		events = dumpEvents(cmd, events)
	}

	opts := []option.Option{option.WithIndentWidth(renderIndent)}
	if renderCompact {
		opts = append(opts, option.Compact)
	}

	out, err := markanywhere.Render(events, opts...)
	if err != nil {
		logger.Error("render failed", "error", err)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// dumpEvents taps the stream with a debug dump of each event before
// passing it through unchanged, so --diff can be composed with
// whatever rendering options the rest of the command line asks for.
func dumpEvents(cmd *cobra.Command, events iter.Seq[markanywhere.Event]) iter.Seq[markanywhere.Event] {
	return func(yield func(markanywhere.Event) bool) {
		for e := range events {
			var kind string
			switch e.Kind {
			case markanywhere.TextEvent:
				kind = "text"
			case markanywhere.MarkEvent:
				kind = "mark"
			case markanywhere.UnmarkEvent:
				kind = "unmark"
			}
			switch e.Kind {
			case markanywhere.TextEvent:
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %q\n", kind, e.Text)
			default:
				var keys []string
				if e.Attributes != nil {
					keys = e.Attributes.Keys()
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s is_tag=%v attrs=%v\n", kind, e.Name, e.IsTag, keys)
			}
			if !yield(e) {
				return
			}
		}
	}
}
