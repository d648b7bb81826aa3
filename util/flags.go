package util

import (
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	altsrctoml "github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"

	"github.com/kovetskiy/katexify/equation"
	"github.com/kovetskiy/katexify/katex"
)

var filename string

var Flags = []cli.Flag{
	&cli.StringFlag{
		Name:      "files",
		Aliases:   []string{"f"},
		Value:     "",
		Usage:     "use specified HTML or markdown file(s). Supports file globbing patterns (needs to be quoted).",
		TakesFile: true,
		Sources:   cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_FILES"), altsrctoml.TOML("files", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:      "output-dir",
		Aliases:   []string{"o"},
		Value:     "",
		Usage:     "write rendered files under this directory, keeping their path relative to the glob base. HTML files are rewritten in place when unset.",
		TakesFile: true,
		Sources:   cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_OUTPUT_DIR"), altsrctoml.TOML("output-dir", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "stdout",
		Value:   false,
		Usage:   "print rendered HTML instead of writing files.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_STDOUT"), altsrctoml.TOML("stdout", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "fragment",
		Value:   false,
		Usage:   "treat input as a body fragment: HTML is written back without html/head/body, markdown is not wrapped into a page.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_FRAGMENT"), altsrctoml.TOML("fragment", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "backend",
		Value:   katex.BackendGoja,
		Usage:   "typesetting backend. Supported options are: goja, chromedp, confluence.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_BACKEND"), altsrctoml.TOML("backend", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:      "katex-script",
		Value:     "",
		Usage:     "path to katex.min.js, required by the goja and chromedp backends.",
		TakesFile: true,
		Sources:   cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_KATEX_SCRIPT"), altsrctoml.TOML("katex-script", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "katex-css",
		Value:   "",
		Usage:   "stylesheet URL linked from pages compiled from markdown.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_KATEX_CSS"), altsrctoml.TOML("katex-css", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "inline-class",
		Value:   equation.DefaultInlineClass,
		Usage:   "class marking elements rendered inline.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_INLINE_CLASS"), altsrctoml.TOML("inline-class", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "display-class",
		Value:   equation.DefaultDisplayClass,
		Usage:   "class marking elements rendered in display mode.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_DISPLAY_CLASS"), altsrctoml.TOML("display-class", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "expr-attr",
		Value:   equation.DefaultExpressionAttr,
		Usage:   "attribute holding the expression source.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_EXPR_ATTR"), altsrctoml.TOML("expr-attr", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "output",
		Value:   "",
		Usage:   "KaTeX output format. Possible values: html, mathml, htmlAndMathml.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_OUTPUT"), altsrctoml.TOML("output", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "trust",
		Value:   false,
		Usage:   "allow KaTeX commands such as \\href and \\htmlClass.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_TRUST"), altsrctoml.TOML("trust", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:      "macros-file",
		Value:     "",
		Usage:     "YAML file mapping macro names to expansions.",
		TakesFile: true,
		Sources:   cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_MACROS_FILE"), altsrctoml.TOML("macros-file", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.DurationFlag{
		Name:    "render-timeout",
		Value:   30 * time.Second,
		Usage:   "time limit for a single expression in the chromedp backend.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_RENDER_TIMEOUT"), altsrctoml.TOML("render-timeout", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringSliceFlag{
		Name:    "features",
		Value:   []string{},
		Usage:   "enables optional markdown features. Current features: mkdocsadmonitions",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_FEATURES"), altsrctoml.TOML("features", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "fail-fast",
		Value:   false,
		Usage:   "stop rendering a file at its first broken equation.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_FAIL_FAST"), altsrctoml.TOML("fail-fast", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "continue-on-error",
		Value:   false,
		Usage:   "don't exit if an error occurs while processing a file, continue processing remaining files.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_CONTINUE_ON_ERROR"), altsrctoml.TOML("continue-on-error", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "changes-only",
		Value:   false,
		Usage:   "don't rewrite output files whose content would not change.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_CHANGES_ONLY"), altsrctoml.TOML("changes-only", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "title-from-h1",
		Value:   false,
		Usage:   "take the page title of markdown files from a leading H1 heading, falling back to the file name.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_TITLE_FROM_H1"), altsrctoml.TOML("title-from-h1", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "watch",
		Aliases: []string{"w"},
		Value:   false,
		Usage:   "keep running and render files again when they change.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_WATCH"), altsrctoml.TOML("watch", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "ci",
		Value:   false,
		Usage:   "run on CI mode. It won't fail if files are not found.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_CI"), altsrctoml.TOML("ci", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:  "color",
		Value: "auto",
		Usage: "display logs in color. Possible values: auto, never.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_COLOR"),
			altsrctoml.TOML("color", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		Usage:   "set the log level. Possible values: TRACE, DEBUG, INFO, WARNING, ERROR, FATAL.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_LOG_LEVEL"), altsrctoml.TOML("log-level", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Value:       ConfigFilePath(),
		Usage:       "use the specified configuration file.",
		TakesFile:   true,
		Sources:     cli.NewValueSourceChain(cli.EnvVar("KATEXIFY_CONFIG")),
		Destination: &filename,
	},
}
