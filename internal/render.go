package internal

// RenderStage wraps every Context.Render call.
// BeforeRender runs in registration order before the component writes anything
// and may populate the request context the component renders with.
// AfterRender runs in reverse order once rendering has finished, including
// when a later stage or the component itself failed.
type RenderStage interface {
	BeforeRender(c Context) error
	AfterRender(c Context)
}

// RenderStageFuncs adapts a pair of plain functions to RenderStage.
// Either field may be nil.
type RenderStageFuncs struct {
	Before func(c Context) error
	After  func(c Context)
}

// BeforeRender implements RenderStage.
func (s RenderStageFuncs) BeforeRender(c Context) error {
	if s.Before == nil {
		return nil
	}
	return s.Before(c)
}

// AfterRender implements RenderStage.
func (s RenderStageFuncs) AfterRender(c Context) {
	if s.After != nil {
		s.After(c)
	}
}

// beforeRender runs stages until one fails and returns those that succeeded.
func beforeRender(c Context, stages []RenderStage) ([]RenderStage, error) {
	for i, st := range stages {
		if err := st.BeforeRender(c); err != nil {
			return stages[:i], err
		}
	}
	return stages, nil
}

func afterRender(c Context, done []RenderStage) {
	for i := len(done) - 1; i >= 0; i-- {
		done[i].AfterRender(c)
	}
}
