package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	templateExt     = ".html.tmpl"
	partialsPattern = "partials/*" + templateExt
)

// ErrTemplateNotFound is returned when no file backs the requested template.
var ErrTemplateNotFound = errors.New("template not found")

var tracer = otel.Tracer("github.com/murtyjones/stimmy")

// Renderer parses html/templates out of an fs.FS and renders them by name.
// Template "filter" lives in filter.html.tmpl; every file under partials/ is
// parsed alongside it. Parsed templates are cached per name.
//
// It can safely be used by multiple goroutines.
type Renderer struct {
	templates fs.FS
	funcs     template.FuncMap

	cacheMu sync.RWMutex
	cache   map[string]*template.Template
}

// NewRenderer returns a Renderer reading templates from dir, with funcs
// registered on every template it parses.
func NewRenderer(dir fs.FS, funcs template.FuncMap) *Renderer {
	return &Renderer{
		templates: dir,
		funcs:     funcs,
		cache:     map[string]*template.Template{},
	}
}

// Render executes the named template with data and returns the output. Nothing
// is returned on error, so a failing template never yields half a page.
func (r *Renderer) Render(ctx context.Context, name string, data any) ([]byte, error) {
	_, span := tracer.Start(ctx, "render.template", trace.WithAttributes(attribute.String("template.name", name)))
	defer span.End()

	tmpl, err := r.lookup(name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name+templateExt, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("executing template %q: %w", name, err)
	}
	span.SetAttributes(attribute.Int("template.bytes", buf.Len()))
	return buf.Bytes(), nil
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	r.cacheMu.RLock()
	tmpl, ok := r.cache[name]
	r.cacheMu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := r.parse(name)
	if err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	r.cache[name] = tmpl
	return tmpl, nil
}

func (r *Renderer) parse(name string) (*template.Template, error) {
	file := name + templateExt
	if _, err := fs.Stat(r.templates, file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return nil, fmt.Errorf("reading template %q: %w", name, err)
	}

	patterns := []string{file}
	partials, err := fs.Glob(r.templates, partialsPattern)
	if err != nil {
		return nil, fmt.Errorf("listing partials: %w", err)
	}
	if len(partials) > 0 {
		patterns = append(patterns, partialsPattern)
	}

	tmpl, err := template.New(file).Funcs(r.funcs).ParseFS(r.templates, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parsing template %q: %w", name, err)
	}
	return tmpl, nil
}
