// Command fpsstat summarizes an FPS log written by quark2d and plots it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"quark2d/fpslog"
)

func main() {
	var (
		inPath  = flag.String("in", fpslog.DefaultPath, "FPS log to read.")
		outPath = flag.String("out", "fps_plot.png", `Plot output ("" skips the plot).`)
		width   = flag.Int("width", 1000, "Plot width in pixels.")
		height  = flag.Int("height", 500, "Plot height in pixels.")
	)
	flag.Parse()

	if err := run(os.Stdout, *inPath, *outPath, *width, *height); err != nil {
		fatalf("%v", err)
	}
}

func run(w io.Writer, inPath, outPath string, width, height int) error {
	samples, err := fpslog.ReadFile(inPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s not found", inPath)
		}
		return err
	}
	st, err := fpslog.Summarize(samples)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}

	fmt.Fprintf(w, "\nFPS Statistics:\n")
	fmt.Fprintf(w, "Samples: %d\n", st.Count)
	fmt.Fprintf(w, "Average FPS: %.2f\n", st.Avg)
	fmt.Fprintf(w, "Minimum FPS: %.2f\n", st.Min)
	fmt.Fprintf(w, "Maximum FPS: %.2f\n", st.Max)

	if outPath == "" {
		return nil
	}
	if err := savePlot(outPath, samples, st, width, height); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	fmt.Fprintf(w, "\nFPS plot saved as %s\n", outPath)
	return nil
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
