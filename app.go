package main

import (
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/chazu/twisty/pkg/config"
	"github.com/chazu/twisty/pkg/engine"
	"github.com/chazu/twisty/pkg/export"
	"github.com/chazu/twisty/pkg/graph"
	"github.com/chazu/twisty/pkg/kernel"
	"github.com/chazu/twisty/pkg/kernel/sdfx"
	"github.com/chazu/twisty/pkg/tessellate"
	"github.com/chazu/twisty/pkg/twisty"
)

// colorPalette colors meshes of shapes declared without a palette.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the scene pipeline: script → design graph → prisms → output.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	log    logrus.FieldLogger
}

// MeshData is the JSON-serializable mesh format for viewers.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Shape    string    `json:"shape"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a script into meshes.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App from cfg, with an engine and the sdfx kernel.
func NewApp(cfg config.Config, log logrus.FieldLogger) *App {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &App{
		engine: engine.NewEngine(engine.WithTimeout(cfg.EvalTimeout), engine.WithLogger(log)),
		kernel: sdfx.NewWithResolution(cfg.MeshCells),
		log:    log,
	}
}

// build evaluates source and folds every rendered shape. On script faults
// it returns the errors and a nil graph.
func (a *App) build(source, file string) (*graph.DesignGraph, []tessellate.Part, engine.EvalResult, error) {
	res, err := a.engine.EvaluateResult(source, file)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.WithError(err).Error("evaluate: fatal error")
		return nil, nil, res, err
	}
	if !res.OK() {
		return nil, nil, res, nil
	}

	parts, err := tessellate.Build(res.Graph)
	if err != nil {
		a.log.WithError(err).Error("build: prism generation failed")
		return nil, nil, res, err
	}
	a.log.WithFields(logrus.Fields{
		"shapes":  len(parts),
		"prisms":  lo.SumBy(parts, func(p tessellate.Part) int { return len(p.Prisms) }),
		"version": res.Graph.Version,
	}).Info("scene built")
	return res.Graph, parts, res, nil
}

// Evaluate takes script source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a design graph.
	res, err := a.engine.EvaluateResult(source, "")
	if err != nil {
		a.log.WithError(err).Error("evaluate: fatal error")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	result.Warnings = lo.Map(res.Warnings, func(w engine.EvalWarning, _ int) EvalErrorData {
		return EvalErrorData{Line: w.Line, Col: w.Col, Message: w.Message}
	})

	// Step 2: Convert eval errors to the result format.
	if len(res.Errors) > 0 {
		result.Errors = lo.Map(res.Errors, func(e engine.EvalError, _ int) EvalErrorData {
			return EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
		})
		return result
	}

	// Step 3: Fold the shapes and tessellate them into triangle meshes.
	meshes, err := tessellate.Tessellate(res.Graph, a.kernel)
	if err != nil {
		a.log.WithError(err).Error("tessellate: failed")
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	// Step 4: Convert kernel meshes, coloring uncolored shapes from the
	// default palette.
	result.Meshes = lo.Map(meshes, func(m *kernel.Mesh, i int) MeshData {
		color := m.Color
		if color == "" {
			color = colorPalette[i%len(colorPalette)]
		}
		return MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Shape:    m.Shape,
			Color:    color,
		}
	})

	return result
}

// ScriptError reports script faults found while exporting.
type ScriptError struct {
	Errors []engine.EvalError
}

func (e ScriptError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.Errors[0].Error(), len(e.Errors)-1)
}

// Export evaluates source and writes the scene in format. JSON and STL go
// to w; DXF is saved to path.
func (a *App) Export(w io.Writer, source, file string, format export.Format, path string) error {
	g, parts, res, err := a.build(source, file)
	if err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		return ScriptError{Errors: res.Errors}
	}

	switch format {
	case export.FormatJSON:
		return export.WriteJSON(w, export.NewScene(g, parts))
	case export.FormatSTL:
		meshes, err := tessellate.Tessellate(g, a.kernel)
		if err != nil {
			return err
		}
		a.log.WithField("meshes", len(meshes)).Info("scene tessellated")
		return export.WriteSTL(path, meshes)
	case export.FormatDXF:
		return export.WriteDXF(path, parts)
	}
	return fmt.Errorf("unknown format %q", format)
}

// Catalog lists the built-in formations with their piece counts, for the
// -list flag.
func Catalog(w io.Writer) error {
	for _, e := range twisty.Catalog() {
		f := e.Formation
		if _, err := fmt.Fprintf(w, "%-12s pieces=%-3d parts=%d notation=%s\n", e.Name, f.PieceCount, f.PartCount, f.Notation); err != nil {
			return err
		}
	}
	return nil
}
