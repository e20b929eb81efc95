package main

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/polyglot"
	"github.com/dmitrymomot/polyglot/pkg/translate"
	"github.com/dmitrymomot/polyglot/pkg/view"
)

type pages struct {
	helper *translate.Helper
}

func newPages(helper *translate.Helper) *pages {
	return &pages{helper: helper}
}

func (p *pages) Routes(r polyglot.Router) {
	r.GET("/", p.home)
	r.GET("/version", p.version)
}

func (p *pages) home(c polyglot.Context) error {
	return c.Render(http.StatusOK, homePage(c.Query("name")))
}

// version reports which compiled build the server is using.
func (p *pages) version(c polyglot.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"version":    p.helper.Version(),
		"languages":  p.helper.Languages(),
		"namespaces": p.helper.Namespaces(),
		"files":      p.helper.CacheVersions(),
	})
}

func homePage(name string) templ.Component {
	if name == "" {
		name = "guest"
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		parts := []any{
			`<!doctype html><html lang="` + templ.EscapeString(view.Lang(ctx)) + `"><head><title>`,
			view.Text("home.title"),
			`</title>`,
			view.BootstrapFromContext(),
			`</head><body><h1>`,
			view.Text("home.greeting", map[string]string{"name": name}),
			`</h1><p>`,
			view.HTML("home.intro"),
			`</p></body></html>`,
		}
		for _, part := range parts {
			var err error
			switch v := part.(type) {
			case string:
				_, err = io.WriteString(w, v)
			case templ.Component:
				err = v.Render(ctx, w)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}
