package util

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kovetskiy/katexify/katex"
	"github.com/kovetskiy/katexify/stdlib"
	"github.com/kovetskiy/katexify/types"
	"github.com/kovetskiy/katexify/vfs"
	"github.com/kovetskiy/lorg"
	"github.com/reconquest/pkg/log"
	"github.com/urfave/cli/v3"
)

func RunKatexify(ctx context.Context, cmd *cli.Command) error {
	if err := SetLogLevel(cmd); err != nil {
		return err
	}

	if cmd.String("color") == "never" {
		log.GetLogger().SetFormat(
			lorg.NewFormat(
				`${time:2006-01-02 15:04:05.000} ${level:%s:left:true} ${prefix}%s`,
			),
		)
		log.GetLogger().SetOutput(os.Stderr)
	}

	pattern := cmd.String("files")
	if pattern == "" {
		return fmt.Errorf("no files specified (--files)")
	}

	files, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		msg := "No files matched"
		if cmd.Bool("ci") {
			log.Warning(msg)
			return nil
		}
		return fmt.Errorf("%s: %s", msg, pattern)
	}

	log.Debug("config:")
	for _, f := range cmd.Flags {
		flag := f.Names()
		log.Debugf(nil, "%20s: %v", flag[0], cmd.Value(flag[0]))
	}

	config, err := NewConfig(cmd)
	if err != nil {
		return err
	}

	lib, err := stdlib.New()
	if err != nil {
		return err
	}

	renderer, err := katex.New(ctx, katex.BackendConfig{
		Name:       config.Backend,
		ScriptPath: config.Script,
		Opener:     vfs.LocalOS,
		Lib:        lib,
		Timeout:    cmd.Duration("render-timeout"),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := katex.Close(renderer); err != nil {
			log.Error(err)
		}
	}()

	watch := cmd.Bool("watch")

	// A watcher outlives single broken edits, and must not react to its
	// own unchanged writes.
	handler := NewErrorHandler(cmd.Bool("continue-on-error") || watch)

	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))

	processor := &Processor{
		Config:      config,
		Renderer:    renderer,
		Lib:         lib,
		Base:        filepath.FromSlash(base),
		OutputDir:   cmd.String("output-dir"),
		Fragment:    cmd.Bool("fragment"),
		ChangesOnly: cmd.Bool("changes-only") || watch,
		TitleFromH1: cmd.Bool("title-from-h1"),
		Handler:     handler,
	}

	if cmd.Bool("stdout") {
		processor.Stdout = os.Stdout
	}

	// Loop through files matched by glob pattern
	for _, file := range files {
		log.Infof(
			nil,
			"processing %s",
			file,
		)

		processor.Process(ctx, file)
	}

	if watch {
		err := Watch(ctx, files, WatchDelay, func(file string) {
			processor.Process(ctx, file)
		})
		if err != nil {
			return err
		}

		return nil
	}

	return handler.Err()
}

// NewConfig collects the rendering settings from flags, loading the macros
// file if one is given.
func NewConfig(cmd *cli.Command) (types.KatexifyConfig, error) {
	config := types.KatexifyConfig{
		Backend:        cmd.String("backend"),
		Script:         cmd.String("katex-script"),
		Stylesheet:     cmd.String("katex-css"),
		InlineClass:    cmd.String("inline-class"),
		DisplayClass:   cmd.String("display-class"),
		ExpressionAttr: cmd.String("expr-attr"),
		Output:         cmd.String("output"),
		Trust:          cmd.Bool("trust"),
		FailFast:       cmd.Bool("fail-fast"),
		Features:       cmd.StringSlice("features"),
	}

	switch config.Output {
	case "", "html", "mathml", "htmlAndMathml":
	default:
		return config, fmt.Errorf("unknown output format: %s", config.Output)
	}

	if path := cmd.String("macros-file"); path != "" {
		macros, err := katex.LoadMacros(vfs.LocalOS, path)
		if err != nil {
			return config, err
		}

		config.Macros = macros
	}

	return config, nil
}

// CheckOutputFlags rejects flag combinations that leave no single place to
// put the result.
func CheckOutputFlags(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.IsSet("stdout") && cmd.IsSet("output-dir") {
		return ctx, fmt.Errorf("flags --stdout and --output-dir cannot be used together")
	}

	if cmd.IsSet("stdout") && cmd.IsSet("watch") {
		return ctx, fmt.Errorf("flags --stdout and --watch cannot be used together")
	}

	return ctx, nil
}

func ConfigFilePath() string {
	fp, err := os.UserConfigDir()
	if err != nil {
		log.Fatal(err)
	}
	return filepath.Join(fp, "katexify.toml")
}

var logLevels = []lorg.Level{
	lorg.LevelTrace,
	lorg.LevelDebug,
	lorg.LevelInfo,
	lorg.LevelWarning,
	lorg.LevelError,
	lorg.LevelFatal,
}

// SetLogLevel applies --log-level, matched case-insensitively against the
// lorg level names.
func SetLogLevel(cmd *cli.Command) error {
	name := cmd.String("log-level")

	for _, level := range logLevels {
		if strings.EqualFold(name, level.String()) {
			log.SetLevel(level)
			return nil
		}
	}

	return fmt.Errorf("unknown log level: %s", name)
}

func getSHA1Hash(input string) string {
	hash := sha1.New()
	hash.Write([]byte(input))
	return hex.EncodeToString(hash.Sum(nil))
}
