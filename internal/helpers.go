package internal

// ContextValue returns the request context value stored under key as T,
// or the zero value when absent or of another type. The i18n middleware
// stores the translator and the resolved language this way.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}
