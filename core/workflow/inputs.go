package workflow

// Inputs gives a task access to the outputs of its data-bound upstream nodes.
type Inputs struct {
	values map[string]any
}

// Get returns the value bound under name.
func (in Inputs) Get(name string) (any, bool) {
	v, ok := in.values[name]
	return v, ok
}

// Len returns the number of bound values.
func (in Inputs) Len() int {
	return len(in.values)
}

// Value returns the input bound under name converted to T.
func Value[T any](in Inputs, name string) (T, bool) {
	var zero T
	v, ok := in.values[name]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}
