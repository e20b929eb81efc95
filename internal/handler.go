package internal

// Handler declares routes on a router.
//
// Example:
//
//	type PagesHandler struct {
//	    helper *translate.Helper
//	}
//
//	func (h *PagesHandler) Routes(r polyglot.Router) {
//	    r.GET("/", h.home)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// It receives a Context and returns an error.
// Returning a non-nil error triggers the error handler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect/modify the request, short-circuit processing,
// or wrap the response.
//
// Example:
//
//	func RequireLanguage(next polyglot.HandlerFunc) polyglot.HandlerFunc {
//	    return func(c polyglot.Context) error {
//	        if c.Language() == "" {
//	            return c.Redirect(http.StatusFound, "/lang")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error
