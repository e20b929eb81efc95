package view

import (
	"context"
	"encoding/json"
	"io"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.UGCPolicy()

// Bootstrap renders a script assigning the render State to window.i18n so a
// client store can start without a round trip. Nothing is rendered without
// a state.
func Bootstrap(state *State) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if state == nil {
			return nil
		}
		data, err := json.Marshal(state.Snapshot())
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, "<script>window.i18n = "); err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		_, err = io.WriteString(w, ";</script>")
		return err
	})
}

// BootstrapFromContext renders Bootstrap for the State of the render context.
func BootstrapFromContext() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		state, ok := StateFromContext(ctx)
		if !ok {
			return nil
		}
		return Bootstrap(state).Render(ctx, w)
	})
}

// Text renders the escaped translation of args.
func Text(args ...any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var m Mixin
		m.Attach(ctx)
		_, err := io.WriteString(w, templ.EscapeString(m.T(args...)))
		return err
	})
}

// HTML renders a translation containing markup, sanitised with a UGC policy.
func HTML(args ...any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var m Mixin
		m.Attach(ctx)
		_, err := io.WriteString(w, htmlPolicy.Sanitize(m.T(args...)))
		return err
	})
}

// Lang renders the active language, for use in attributes such as <html lang>.
func Lang(ctx context.Context) string {
	var m Mixin
	m.Attach(ctx)
	return m.Lang()
}
