// Package layer coordinates overlays that are mounted at the same time.
//
// Each kind of layer (dismissible, escape, text selection) has its own
// ordered registry. A Context owns one registry per kind and is shared by
// every manager of an application; tests build a fresh Context each.
package layer

import (
	"log/slog"

	"github.com/idursun/layerkit/internal/dom"
	"github.com/idursun/layerkit/internal/timing"
	"github.com/oklog/ulid/v2"
)

type Context struct {
	Document  *dom.Document
	Scheduler timing.Scheduler
	Logger    *slog.Logger

	Dismissible   *Registry[Behavior]
	Escape        *Registry[Behavior]
	TextSelection *Registry[bool]
	Gestures      *Gestures
}

type Option func(*Context)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

func NewContext(doc *dom.Document, scheduler timing.Scheduler, opts ...Option) *Context {
	c := &Context{
		Document:      doc,
		Scheduler:     scheduler,
		Logger:        slog.Default(),
		Dismissible:   NewRegistry[Behavior](),
		Escape:        NewRegistry[Behavior](),
		TextSelection: NewRegistry[bool](),
		Gestures:      NewGestures(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewID returns a fresh manager id used for registration and log
// correlation.
func NewID() string {
	return ulid.Make().String()
}
