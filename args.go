package callback

// Arg extracts the argument at index i as T.
// Returns the value and true if present and of type T, or the zero value and false.
//
// Example:
//
//	q.Add(func(_ *Server, args ...any) {
//	    addr, ok := callback.Arg[string](args, 0)
//	    if !ok {
//	        return
//	    }
//	    // ...
//	})
func Arg[T any](args []any, i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(args) {
		return zero, false
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// ArgOr extracts the argument at index i as T, or returns def.
func ArgOr[T any](args []any, i int, def T) T {
	if v, ok := Arg[T](args, i); ok {
		return v
	}
	return def
}
