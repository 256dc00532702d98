// Command twisty folds prism chains described by a scene script and writes
// the result as a JSON prism dump, binary STL or DXF wireframe.
//
// Usage:
//
//	twisty [-config twisty.yaml] [-format json|stl|dxf] [-o path] [-log-level info] script.twisty
//	twisty -list
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/chazu/twisty/pkg/config"
	"github.com/chazu/twisty/pkg/export"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, returning the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("twisty", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "Path to twisty.yaml config file")
	format := fs.String("format", "", "Output format: json, stl or dxf (default: json)")
	output := fs.String("o", "", "Output file (default: stdout; required for stl and dxf)")
	logLevel := fs.String("log-level", "", "Log level (default: info)")
	meshCells := fs.Int("cells", 0, "Marching cubes resolution for stl (default: 200)")
	timeout := fs.Duration("timeout", 0, "Script evaluation timeout (default: 5s)")
	list := fs.Bool("list", false, "List the built-in catalog formations and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *list {
		if err := Catalog(stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: expected exactly one script file.")
		fs.Usage()
		return 2
	}
	script := fs.Arg(0)

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	cfg.Resolve(config.Flags{
		MeshCells:   *meshCells,
		EvalTimeout: *timeout,
		LogLevel:    *logLevel,
		Format:      *format,
		Output:      *output,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetLevel(cfg.Level())

	source, err := os.ReadFile(script)
	if err != nil {
		log.WithError(err).Error("read script")
		return 1
	}

	var w io.Writer = stdout
	if cfg.Output != "" && cfg.Format == string(export.FormatJSON) {
		f, err := os.Create(cfg.Output)
		if err != nil {
			log.WithError(err).Error("create output")
			return 1
		}
		defer f.Close()
		w = f
	}

	app := NewApp(cfg, log)
	if err := app.Export(w, string(source), script, export.Format(cfg.Format), cfg.Output); err != nil {
		log.WithError(err).WithField("script", script).Error("export failed")
		return 1
	}
	log.WithFields(logrus.Fields{
		"script": script,
		"format": cfg.Format,
		"output": cfg.Output,
	}).Info("done")
	return 0
}
