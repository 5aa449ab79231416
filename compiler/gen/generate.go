package gen

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/bridge/adapter"
	"github.com/syssam/bridge/entity"
	"github.com/syssam/bridge/schema/field"
)

// Config configures the generator.
type Config struct {
	// Target is the output directory.
	Target string
	// Package is the package name of the generated files. It defaults
	// to the base name of Target.
	Package string
	// Workers limits the files written in parallel. It defaults to
	// GOMAXPROCS.
	Workers int
	// Logger receives a debug record per written file.
	Logger *slog.Logger
}

// Generator writes the model files of a graph.
type Generator struct {
	graph   *entity.Graph
	outDir  string
	pkg     string
	workers int
	logger  *slog.Logger
}

// NewGenerator returns a generator of the graph.
func NewGenerator(g *entity.Graph, cfg *Config) (*Generator, error) {
	if cfg == nil || cfg.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory")
	}
	gen := &Generator{
		graph:   g,
		outDir:  cfg.Target,
		pkg:     cfg.Package,
		workers: cfg.Workers,
		logger:  cfg.Logger,
	}
	if gen.pkg == "" {
		gen.pkg = strings.ToLower(pascal(filepath.Base(cfg.Target)))
	}
	if gen.workers <= 0 {
		gen.workers = runtime.GOMAXPROCS(0)
	}
	if gen.logger == nil {
		gen.logger = slog.Default()
	}
	return gen, nil
}

// Generate writes one file per entity and the tables file.
func Generate(ctx context.Context, g *entity.Graph, cfg *Config) error {
	gen, err := NewGenerator(g, cfg)
	if err != nil {
		return err
	}
	return gen.Generate(ctx)
}

// Generate writes the files in parallel. It returns the first failure.
func (g *Generator) Generate(ctx context.Context) error {
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return &GenerationError{File: g.outDir, Message: "create target", Cause: err}
	}
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for _, e := range g.graph.Entities() {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := g.EntityFile(e)
			if err != nil {
				return err
			}
			return g.writeFile(ctx, f, FileName(e.Name()))
		})
	}
	errg.Go(func() error {
		return g.writeFile(ctx, g.TablesFile(), "tables.go")
	})
	return errg.Wait()
}

// FileName returns the file name of the entity model.
func FileName(name string) string {
	return inflect.Underscore(name) + ".go"
}

// EntityFile renders the model file of the entity.
func (g *Generator) EntityFile(e *entity.Entity) (*jen.File, error) {
	typ := pascal(e.Name())
	f := g.newFile()
	table := e.Descriptor()

	f.Commentf("%sTable is the table of %s rows.", typ, typ)
	f.Const().Id(typ+"Table").Op("=").Lit(table.Name)

	idents := make(map[string]string)
	var (
		fields   []jen.Code
		synonyms []*adapter.Field
	)
	for _, af := range e.Fields() {
		id := pascal(af.Name())
		if prev, ok := idents[id]; ok {
			return nil, &GenerationError{Entity: e.Name(), Message: "attributes " + prev + " and " + af.Name() + " generate the same identifier " + id}
		}
		idents[id] = af.Name()
		d := af.Descriptor()
		code := jen.Id(id).Add(goType(d)).Tag(map[string]string{"db": af.ColumnName()})
		if d.Deferred.Enabled {
			code.Comment(d.Deferred.String())
		}
		if d.HelpText != "" {
			fields = append(fields, jen.Comment(d.HelpText))
		}
		fields = append(fields, code)
		if af.Descriptor().Synonym != "" {
			synonyms = append(synonyms, af)
		}
	}
	f.Commentf("%s is a row of the %s table.", typ, table.Name)
	f.Type().Id(typ).Struct(fields...)

	cols := make([]jen.Code, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = jen.Lit(c.Name)
	}
	f.Commentf("%sColumns holds the columns of the %s table, in table order.", typ, table.Name)
	f.Var().Id(typ+"Columns").Op("=").Index().String().Values(cols...)

	r := receiver(typ)
	for _, af := range synonyms {
		name := pascal(af.Descriptor().Synonym)
		if prev, ok := idents[name]; ok {
			return nil, &GenerationError{Entity: e.Name(), Message: "synonym " + af.Descriptor().Synonym + " and attribute " + prev + " generate the same identifier " + name}
		}
		idents[name] = af.Descriptor().Synonym
		f.Commentf("%s returns %s.", name, pascal(af.Name()))
		f.Func().Params(jen.Id(r).Op("*").Id(typ)).Id(name).Params().Add(goType(af.Descriptor())).Block(
			jen.Return(jen.Id(r).Dot(pascal(af.Name()))),
		)
	}
	return f, nil
}

// TablesFile renders the file mapping entity names to tables.
func (g *Generator) TablesFile() *jen.File {
	f := g.newFile()
	f.Comment("Tables maps entity names to their tables.")
	f.Var().Id("Tables").Op("=").Map(jen.String()).String().Values(jen.DictFunc(func(d jen.Dict) {
		for _, e := range g.graph.Entities() {
			d[jen.Lit(e.Name())] = jen.Id(pascal(e.Name()) + "Table")
		}
	}))
	return f
}

// goType returns the Go type of values of the field. Nullable fields
// are pointers.
func goType(d *field.Descriptor) jen.Code {
	var t *jen.Statement
	switch k := d.Kind; {
	case k == field.KindBool, k == field.KindNullBool:
		t = jen.Bool()
	case k == field.KindSmallInt, k == field.KindPositiveSmallInt:
		t = jen.Int16()
	case k == field.KindAuto, k.Integer():
		t = jen.Int64()
	case k == field.KindFloat:
		t = jen.Float64()
	case k.Temporal():
		t = jen.Qual("time", "Time")
	default:
		// Decimals are kept as strings to preserve their precision.
		t = jen.String()
	}
	if d.Null {
		return jen.Op("*").Add(t)
	}
	return t
}

func (g *Generator) newFile() *jen.File {
	f := jen.NewFile(g.pkg)
	f.HeaderComment("Code generated by bridge. DO NOT EDIT.")
	return f
}

// writeFile renders the file directly to disk.
func (g *Generator) writeFile(ctx context.Context, f *jen.File, name string) error {
	path := filepath.Join(g.outDir, name)
	out, err := os.Create(path)
	if err != nil {
		return &GenerationError{File: path, Message: "create", Cause: err}
	}
	defer out.Close()
	if err := f.Render(out); err != nil {
		return &GenerationError{File: path, Message: "render", Cause: err}
	}
	g.logger.DebugContext(ctx, "file generated", "path", path)
	return nil
}
