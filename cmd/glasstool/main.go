// glasstool is a headless CLI for checking how TintView sees a model's glass.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Faultbox/tintview/internal/glass"
	"github.com/Faultbox/tintview/internal/loader"
	"github.com/Faultbox/tintview/internal/logger"
	"github.com/Faultbox/tintview/internal/registry"
	"github.com/Faultbox/tintview/internal/scene"
	"github.com/Faultbox/tintview/internal/tint"
)

// placeholderArg selects the built-in car instead of a file.
const placeholderArg = "placeholder"

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "inspect", "i":
		err = cmdInspect(os.Stdout, args)
	case "export", "x":
		err = cmdExport(os.Stdout, args)
	case "state", "s":
		err = cmdState(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `glasstool - inspect vehicle glass the way TintView maps it

Usage:
  glasstool <command> [options]

Commands:
  inspect [options] <model>              Show detected glass and the window mapping
  export [options] <model> <out.glb>     Write the mapped, tinted model (.glb or .gltf)
  state [query]                          Normalise and print a tint state

Options for inspect and export:
  -axes z,x        Depth and lateral axes of the model
  -keywords a,b    Extra glass name keywords
  -min-panes N     Real panes needed before proxies are used
  -state QUERY     Tint state applied before export
  -v               Verbose logging

Use "placeholder" as <model> for the built-in car.

Examples:
  glasstool inspect sedan.glb
  glasstool export -state "s=35&u=1" sedan.glb tinted.glb
  glasstool state "w=ws:10,lf:50&f=carbon"`)
}

// modelFlags are shared by inspect and export.
type modelFlags struct {
	axes     string
	keywords string
	minPanes int
	state    string
	verbose  bool
}

func (m *modelFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&m.axes, "axes", "z,x", "Depth and lateral axes")
	fs.StringVar(&m.keywords, "keywords", "", "Extra comma-separated glass keywords")
	fs.IntVar(&m.minPanes, "min-panes", glass.MinRealPanes, "Real panes needed before proxies are used")
	fs.StringVar(&m.state, "state", "", "Tint state query")
	fs.BoolVar(&m.verbose, "v", false, "Verbose logging")
}

func (m *modelFlags) registry() (*registry.Registry, error) {
	depth, lateral, _ := strings.Cut(m.axes, ",")
	axes, err := glass.ParseAxes(depth, lateral)
	if err != nil {
		return nil, err
	}
	var extra []string
	for _, kw := range strings.Split(m.keywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			extra = append(extra, kw)
		}
	}
	return registry.New(registry.Options{
		Detector:     glass.NewDetector(extra...),
		Classifier:   glass.NewClassifier(axes),
		MinRealPanes: m.minPanes,
	}), nil
}

func (m *modelFlags) initLogging() {
	level := "warn"
	if m.verbose {
		level = "debug"
	}
	opts := logger.DefaultOptions(level, "")
	opts.Writer = os.Stderr
	logger.Init(opts)
}

func loadModel(path string) (*scene.Node, error) {
	if path == placeholderArg {
		return loader.Placeholder(), nil
	}
	return loader.LoadFile(context.Background(), path)
}

func cmdInspect(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	var mf modelFlags
	mf.register(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: glasstool inspect [options] <model>")
		return errUsage
	}
	mf.initLogging()

	reg, err := mf.registry()
	if err != nil {
		return err
	}
	root, err := loadModel(fs.Arg(0))
	if err != nil {
		return err
	}

	report := reg.Rebuild(root)
	printReport(w, fs.Arg(0), reg, report)
	return nil
}

func printReport(w io.Writer, name string, reg *registry.Registry, report registry.Report) {
	fmt.Fprintf(w, "Model:    %s\n", name)
	fmt.Fprintf(w, "Detected: %d\n", len(report.Matches))
	fmt.Fprintf(w, "Proxies:  %d\n", len(report.Proxies))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(report.Matches) > 0 {
		fmt.Fprintln(tw, "MESH\tRULE\tCONFIDENCE")
		for _, m := range report.Matches {
			fmt.Fprintf(tw, "%s\t%s\t%.2f\n", m.Node.Name, m.Rule, m.Confidence)
		}
		fmt.Fprintln(tw)
	}

	fmt.Fprintln(tw, "WINDOW\tSOURCE\tPROXY\tPOSITION\tAREA")
	for _, k := range glass.Keys {
		s, ok := reg.Lookup(k)
		if !ok {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\n", k.Label())
			continue
		}
		p := s.Position
		fmt.Fprintf(tw, "%s\t%s\t%t\t(%.2f, %.2f, %.2f)\t%.3f\n", k.Label(), s.Label, s.Synthesized, p[0], p[1], p[2], s.Area)
	}
	tw.Flush()
}

func cmdExport(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	var mf modelFlags
	mf.register(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: glasstool export [options] <model> <out.glb>")
		return errUsage
	}
	mf.initLogging()

	state, err := tint.Decode(mf.state, tint.Default())
	if err != nil {
		return err
	}
	reg, err := mf.registry()
	if err != nil {
		return err
	}
	root, err := loadModel(fs.Arg(0))
	if err != nil {
		return err
	}

	report := reg.Rebuild(root)
	tinted := tint.ApplyAll(reg, state)
	if err := loader.Export(root, fs.Arg(1)); err != nil {
		return err
	}

	fmt.Fprintf(w, "Wrote %s (%d windows mapped, %d tinted, %d proxies)\n",
		fs.Arg(1), len(report.Mapped), tinted, len(report.Proxies))
	return nil
}

func cmdState(w io.Writer, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	state, err := tint.Decode(query, tint.Default())
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "?%s\n\n", tint.Encode(state))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "view\t%s\n", state.View)
	fmt.Fprintf(tw, "lighting\t%s\n", state.Lighting)
	fmt.Fprintf(tw, "film\t%s\n", state.Film)
	fmt.Fprintf(tw, "uniform\t%t\n", state.Uniform)
	fmt.Fprintf(tw, "shade\t%d%%\n", state.Shade)
	for _, k := range glass.Keys {
		fmt.Fprintf(tw, "%s\t%d%%\n", k.Label(), state.ShadeFor(k))
	}
	return tw.Flush()
}
