package localectl

import (
	"slices"

	"github.com/dmitrymomot/polyglot/internal"
	"github.com/dmitrymomot/polyglot/pkg/translate"
	"github.com/dmitrymomot/polyglot/pkg/view"
)

// RenderStage returns the stage preparing translation state for every
// Context.Render. BeforeRender keeps a State already present in the context
// and otherwise builds one for the request language; it always installs a
// fresh view.Helper. AfterRender drops the helper so it never outlives the
// render.
func (ctl *Controller) RenderStage() internal.RenderStage {
	return renderStage{ctl: ctl}
}

type renderStage struct {
	ctl *Controller
}

func (s renderStage) BeforeRender(c internal.Context) error {
	state, ok := view.StateFromContext(c)
	if !ok {
		state = s.ctl.NewState(s.ctl.RequestLanguage(c))
		c.Set(view.StateKey{}, state)
	}

	lang := state.Lang
	c.Set(view.HelperKey{}, view.NewHelper(state, func(args ...any) string {
		key, values, count := view.SplitArgs(args)
		return s.ctl.helper.Translate(nil, key, translate.Options{
			Lang:   lang,
			Values: values,
			Count:  count,
		})
	}))
	return nil
}

func (s renderStage) AfterRender(c internal.Context) {
	c.Set(view.HelperKey{}, (*view.Helper)(nil))
}

// NewState returns the render State for lang: current language only, an
// empty memo, and backend options pointing at the locale route with the
// cache-busting version.
func (ctl *Controller) NewState(lang string) *view.State {
	if lang == "" {
		lang = ctl.helper.FallbackLanguage()
	}
	return &view.State{
		Lang:     lang,
		Load:     view.LoadCurrentOnly,
		Defaults: map[string]string{},
		Backend: view.BackendOptions{
			LoadPath:          ctl.cfg.LoadPath,
			QueryStringParams: map[string]string{"v": ctl.helper.Version()},
			AllowMultiLoading: false,
		},
		Namespaces:       ctl.namespaces(),
		DefaultNamespace: ctl.helper.DefaultNamespace(),
		FallbackLng:      ctl.helper.FallbackLanguage(),
	}
}

func (ctl *Controller) namespaces() []string {
	if ns := ctl.helper.Namespaces(); len(ns) > 0 {
		return slices.Clone(ns)
	}
	return []string{ctl.helper.DefaultNamespace()}
}
