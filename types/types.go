package types

type KatexifyConfig struct {
	Backend    string
	Script     string
	Stylesheet string

	InlineClass    string
	DisplayClass   string
	ExpressionAttr string

	Output string
	Trust  bool
	Macros map[string]string

	FailFast bool
	Features []string
}
