package stdlib

import (
	"strings"
	"text/template"

	"github.com/reconquest/karma-go"
)

const (
	TemplatePage        = `katexify:page`
	TemplateMathInline  = `ac:math:inline`
	TemplateMathDisplay = `ac:math:display`
)

type Lib struct {
	Templates *template.Template
}

// Page is the data passed to the page layout template.
type Page struct {
	Title      string
	Stylesheet string
	Body       string
}

func New() (*Lib, error) {
	templates, err := templates()
	if err != nil {
		return nil, err
	}

	return &Lib{Templates: templates}, nil
}

func (lib *Lib) Execute(name string, data interface{}) (string, error) {
	var buffer strings.Builder

	err := lib.Templates.ExecuteTemplate(&buffer, name, data)
	if err != nil {
		return "", karma.Format(err, "unable to execute template %q", name)
	}

	return buffer.String(), nil
}

func templates() (*template.Template, error) {
	text := func(line ...string) string {
		return strings.Join(line, ``)
	}

	templates := template.New(`stdlib`).Funcs(
		template.FuncMap{
			// The only way to escape CDATA end marker ']]>' is to split it
			// into two CDATA sections.
			"cdata": func(data string) string {
				return strings.ReplaceAll(
					data,
					"]]>",
					"]]><![CDATA[]]]]><![CDATA[>",
				)
			},
		},
	)

	var err error

	for name, body := range map[string]string{
		// Standalone page for documents compiled from markdown; the body
		// is already HTML and is inserted as is.
		TemplatePage: text(
			`<!DOCTYPE html>{{printf "\n"}}`,
			`<html>{{printf "\n"}}`,
			`<head>{{printf "\n"}}`,
			/**/ `<meta charset="utf-8">{{printf "\n"}}`,
			/**/ `{{ if .Title }}<title>{{ .Title | html }}</title>{{printf "\n"}}{{ end }}`,
			/**/ `{{ if .Stylesheet }}<link rel="stylesheet" href="{{ .Stylesheet | html }}">{{printf "\n"}}{{ end }}`,
			`</head>{{printf "\n"}}`,
			`<body>{{printf "\n"}}`,
			/**/ `{{ .Body }}`,
			`</body>{{printf "\n"}}`,
			`</html>{{printf "\n"}}`,
		),

		TemplateMathInline: text(
			`<ac:structured-macro ac:name="ppl mathjax inline macro">`,
			`<ac:parameter ac:name="equation">{{ .Expression | html }}</ac:parameter>`,
			`</ac:structured-macro>`,
		),

		TemplateMathDisplay: text(
			`<ac:structured-macro ac:name="ppl mathjax block macro">`,
			`<ac:plain-text-body><![CDATA[{{ .Expression | cdata }}]]></ac:plain-text-body>`,
			`</ac:structured-macro>`,
		),
	} {
		templates, err = templates.New(name).Parse(body)
		if err != nil {
			err = karma.
				Describe("template", body).
				Format(
					err,
					"unable to parse template",
				)

			return nil, err
		}
	}

	return templates, nil
}
