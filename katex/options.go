package katex

// Options is the render configuration passed along with every expression.
// The zero value renders inline.
type Options struct {
	DisplayMode bool

	// Macros maps a control sequence such as \RR to its expansion.
	Macros map[string]string

	// Output selects the KaTeX output format: html, mathml or
	// htmlAndMathml. Empty means the library default.
	Output string

	Trust bool
}

func (opts Options) WithDisplayMode(display bool) Options {
	opts.DisplayMode = display
	return opts
}

// WithMacros returns a copy with extra macros layered over the existing
// ones.
func (opts Options) WithMacros(macros map[string]string) Options {
	if len(macros) == 0 {
		return opts
	}

	merged := make(map[string]string, len(opts.Macros)+len(macros))
	for name, expansion := range opts.Macros {
		merged[name] = expansion
	}
	for name, expansion := range macros {
		merged[name] = expansion
	}

	opts.Macros = merged

	return opts
}

// object builds the options argument of katex.renderToString. A fresh
// macros object is built on every call since KaTeX writes \gdef
// definitions back into it.
func (opts Options) object() map[string]interface{} {
	object := map[string]interface{}{
		"displayMode":  opts.DisplayMode,
		"throwOnError": true,
	}

	if len(opts.Macros) > 0 {
		macros := make(map[string]interface{}, len(opts.Macros))
		for name, expansion := range opts.Macros {
			macros[name] = expansion
		}

		object["macros"] = macros
	}

	if opts.Output != "" {
		object["output"] = opts.Output
	}

	if opts.Trust {
		object["trust"] = true
	}

	return object
}
