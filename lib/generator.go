package lib

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

/*
	Generator ties the sealed registry and rule table to an emitter. It
	holds no per-run state, so one generator can serve many catalogs.
*/
type Generator struct {
	Registry *Registry
	Rules    *Rules
	Emitter  Emitter
	Logger   *zap.Logger

	// Workers bounds the parallel geometry fan-out; 0 means GOMAXPROCS.
	Workers int
}

func NewGenerator(reg *Registry, rules *Rules, emitter Emitter) *Generator {
	return &Generator{
		Registry: reg,
		Rules:    rules,
		Emitter:  emitter,
		Logger:   zap.NewNop(),
	}
}

func (g *Generator) workers() int {
	if g.Workers > 0 {
		return g.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// checkCache drops cached geometry that was computed for another attribute set.
func checkCache(c *Component) string {
	key := c.Hash()
	if c.cacheKey != key {
		c.symbol, c.footprint = nil, nil
		c.cacheKey = key
	}
	return key
}

// SymbolGeometry returns the cached symbol layout of c, computing it once.
func (g *Generator) SymbolGeometry(c *Component) (*SymbolGeometry, error) {
	checkCache(c)
	if c.symbol != nil {
		CacheHits.WithLabelValues("symbol").Inc()
		return c.symbol, nil
	}

	start := time.Now()
	sym, err := ComputeSymbolGeometry(g.Rules, c)
	recordGeometry("symbol", start, err)
	if err != nil {
		return nil, err
	}
	c.symbol = sym
	return sym, nil
}

// FootprintGeometry returns the cached footprint layout of c.
func (g *Generator) FootprintGeometry(c *Component) (*FootprintGeometry, error) {
	checkCache(c)
	if c.footprint != nil {
		CacheHits.WithLabelValues("footprint").Inc()
		return c.footprint, nil
	}

	start := time.Now()
	fp, err := ComputeFootprintGeometry(g.Rules, c)
	recordGeometry("footprint", start, err)
	if err != nil {
		return nil, err
	}
	c.footprint = fp
	return fp, nil
}

// EmitSymbol lays out and renders one symbol.
func (g *Generator) EmitSymbol(c *Component) (string, error) {
	sym, err := g.SymbolGeometry(c)
	if err != nil {
		return "", err
	}
	text, err := g.Emitter.EmitSymbol(c, sym)
	recordEmit(g.Emitter.Name(), err)
	if err != nil {
		return "", err
	}
	c.emitted = true
	return text, nil
}

// EmitFootprint lays out and renders one footprint.
func (g *Generator) EmitFootprint(c *Component) (string, error) {
	fp, err := g.FootprintGeometry(c)
	if err != nil {
		return "", err
	}
	text, err := g.Emitter.EmitFootprint(c, fp)
	recordEmit(g.Emitter.Name(), err)
	return text, err
}

// ParseSymbol reads symbol text back into a component when the format
// supports it.
func (g *Generator) ParseSymbol(text string) (*Component, error) {
	p, ok := g.Emitter.(SymbolParser)
	if !ok {
		return nil, fmt.Errorf("%w: %s cannot parse symbols", ErrUnsupported, g.Emitter.Name())
	}
	return p.ParseSymbol(g.Registry, text)
}

// ParseLibrary reads a whole library back into a catalog.
func (g *Generator) ParseLibrary(ctx context.Context, name, text string) (*Catalog, error) {
	p, ok := g.Emitter.(SymbolParser)
	if !ok {
		return nil, fmt.Errorf("%w: %s cannot parse libraries", ErrUnsupported, g.Emitter.Name())
	}
	components, err := p.ParseLibrary(g.Registry, text)
	if err != nil {
		return nil, err
	}

	cat := NewCatalog(name)
	for _, c := range components {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := cat.Add(c); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

/*
	LibraryOutput is the result of emitting a catalog. Text holds every
	component that could be generated; the rest are listed in Failures.
*/
type LibraryOutput struct {
	Text     string
	Emitted  []string
	Failures []*EntityError
}

type layoutResult struct {
	part Part
	err  error
}

/*
	layout computes geometry for every component of cat in parallel. Each
	worker only touches its own component and its own result slot.
*/
func (g *Generator) layout(ctx context.Context, cat *Catalog, footprintOnly bool) ([]layoutResult, error) {
	components := cat.Components()
	results := make([]layoutResult, len(components))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers())
	for i, c := range components {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i].part.Component = c
			if !footprintOnly {
				sym, err := g.SymbolGeometry(c)
				if err != nil {
					results[i].err = err
					return nil
				}
				results[i].part.Symbol = sym
			}

			fp, err := g.FootprintGeometry(c)
			if err != nil {
				if footprintOnly {
					results[i].err = err
				}
				return nil
			}
			results[i].part.Footprint = fp
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (g *Generator) fail(out *[]*EntityError, c *Component, err error) {
	g.Logger.Warn("failed to generate component",
		zap.String("symbol", c.Name()),
		zap.String("format", g.Emitter.Name()),
		zap.Error(err),
	)
	*out = append(*out, &EntityError{Symbol: c.Name(), Err: err})
}

/*
	EmitLibrary renders every component of cat in insertion order inside the
	library header and footer. A component that fails is reported in
	Failures and left out; it never fails the library. The error return is
	only for cancellation and emitter failures.
*/
func (g *Generator) EmitLibrary(ctx context.Context, cat *Catalog) (*LibraryOutput, error) {
	results, err := g.layout(ctx, cat, false)
	if err != nil {
		return nil, err
	}

	out := &LibraryOutput{}
	parts := make([]Part, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			g.fail(&out.Failures, r.part.Component, r.err)
			continue
		}
		parts = append(parts, r.part)
	}

	text, err := g.Emitter.EmitLibrary(cat.Name(), parts)
	recordEmit(g.Emitter.Name(), err)
	if err != nil {
		return nil, err
	}

	for _, p := range parts {
		p.Component.emitted = true
		out.Emitted = append(out.Emitted, p.Component.Name())
	}
	out.Text = text

	g.Logger.Info("emitted library",
		zap.String("library", cat.Name()),
		zap.Int("symbols", len(out.Emitted)),
		zap.Int("failures", len(out.Failures)),
	)
	return out, nil
}

type FootprintFile struct {
	Name string
	Text string
}

type FootprintOutput struct {
	Files    []FootprintFile
	Failures []*EntityError
}

// EmitFootprints renders one file per distinct footprint, in order of
// first use.
func (g *Generator) EmitFootprints(ctx context.Context, cat *Catalog) (*FootprintOutput, error) {
	results, err := g.layout(ctx, cat, true)
	if err != nil {
		return nil, err
	}

	out := &FootprintOutput{}
	seen := map[string]bool{}
	for _, r := range results {
		c := r.part.Component
		if r.err != nil {
			g.fail(&out.Failures, c, r.err)
			continue
		}
		if seen[r.part.Footprint.Name] {
			continue
		}
		seen[r.part.Footprint.Name] = true

		text, err := g.Emitter.EmitFootprint(c, r.part.Footprint)
		recordEmit(g.Emitter.Name(), err)
		if err != nil {
			g.fail(&out.Failures, c, err)
			continue
		}
		out.Files = append(out.Files, FootprintFile{Name: r.part.Footprint.Name, Text: text})
	}
	return out, nil
}

// Output is everything generated for one catalog.
type Output struct {
	Library    *LibraryOutput
	Footprints *FootprintOutput
}

func (g *Generator) Generate(ctx context.Context, cat *Catalog) (*Output, error) {
	lib, err := g.EmitLibrary(ctx, cat)
	if err != nil {
		return nil, err
	}
	fps, err := g.EmitFootprints(ctx, cat)
	if err != nil {
		return nil, err
	}
	return &Output{Library: lib, Footprints: fps}, nil
}
