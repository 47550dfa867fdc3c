// Package cli implements the fastimg command line tool.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/fastimg/fastimg"
)

// Run executes the tool and returns the process exit code. Output for each
// file is printed in argument order regardless of completion order.
func Run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fastimg", flag.ContinueOnError)
	fs.SetOutput(stderr)
	typeOnly := fs.Bool("type", false, "report only the detected image type")
	animated := fs.Bool("animated", false, "report the animation flag instead of dimensions")
	concurrency := fs.Int("j", 4, "number of files probed concurrently")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(stderr, "usage: fastimg [flags] file...")
		fs.PrintDefaults()
		return 2
	}

	property := fastimg.Size
	if *typeOnly {
		property = fastimg.TypeOnly
	}
	if *animated {
		property = fastimg.Animated
	}

	lines := make([]string, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(*concurrency)
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			lines[i], errs[i] = probe(name, property)
			return nil
		})
	}
	g.Wait()

	exitCode := 0
	for i, name := range files {
		if errs[i] != nil {
			fmt.Fprintf(stderr, "%s: %v\n", name, errs[i])
			exitCode = 1
			continue
		}
		fmt.Fprintln(stdout, lines[i])
	}
	return exitCode
}

func probe(name string, property fastimg.Property) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	result, err := fastimg.Decode(fastimg.Options{R: f, Property: property})
	if err != nil {
		return "", err
	}

	switch property {
	case fastimg.TypeOnly:
		return fmt.Sprintf("%s: %s", name, result.Type), nil
	case fastimg.Animated:
		return fmt.Sprintf("%s: %s animated=%t", name, result.Type, result.Animated), nil
	default:
		s := fmt.Sprintf("%s: %s %dx%d", name, result.Type, result.Width, result.Height)
		if result.Orientation > 1 {
			s += fmt.Sprintf(" orientation=%d", result.Orientation)
		}
		return s, nil
	}
}
