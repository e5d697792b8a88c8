package descriptor

// Options holds the option assignments of a file, message, enum, service,
// method or field. Values are strings, int64s, float64s or bools, depending
// on the literal used in the source. Codegen-relevant options (output class
// names and the like) pass through untouched; exposing them in the template
// object is the only duty of the descriptor layer.
type Options map[string]interface{}

// Set stores an option value, allocating the map on first use, and returns
// the possibly new map.
func (o Options) Set(key string, value interface{}) Options {
	if o == nil {
		o = make(Options, 1)
	}
	o[key] = value
	return o
}

// GetString returns the option value as a string, if present and a string.
func (o Options) GetString(key string) (string, bool) {
	v, ok := o[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// templateObject returns a plain copy for rendering, nil for no options.
func (o Options) templateObject() map[string]interface{} {
	if len(o) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}
