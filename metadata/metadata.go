package metadata

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/reconquest/pkg/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	HeaderTitle      = `Title`
	HeaderMacro      = `Macro`
	HeaderStylesheet = `Stylesheet`
)

type Meta struct {
	Title      string
	Stylesheet string

	// Macros declared by the document, keyed by control sequence.
	Macros map[string]string
}

var (
	reHeaderPattern = regexp.MustCompile(`^<!--\s*([^:]+):\s*(.*)\s*-->$`)
)

// ExtractMeta reads the leading <!-- Header: value --> lines of a markdown
// document and returns them with the remaining document body.
func ExtractMeta(data []byte, titleFromH1 bool, titleFromFilename bool, filename string) (*Meta, []byte, error) {
	var (
		meta   *Meta
		offset int
	)

	scanner := bufio.NewScanner(bytes.NewBuffer(data))
	for scanner.Scan() {
		line := scanner.Text()

		matches := reHeaderPattern.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			break
		}

		offset += len(line) + 1

		if meta == nil {
			meta = &Meta{}
		}

		header := cases.Title(language.English).String(strings.TrimSpace(matches[1]))
		value := strings.TrimSpace(matches[2])

		switch header {
		case HeaderTitle:
			meta.Title = value

		case HeaderStylesheet:
			meta.Stylesheet = value

		case HeaderMacro:
			name, expansion, err := parseMacro(value)
			if err != nil {
				return nil, nil, err
			}

			if meta.Macros == nil {
				meta.Macros = map[string]string{}
			}

			meta.Macros[name] = expansion

		default:
			log.Errorf(
				nil,
				`encountered unknown header %q line: %#v`,
				header,
				line,
			)

			continue
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	if offset > len(data) {
		offset = len(data)
	}

	if titleFromH1 || titleFromFilename {
		if meta == nil {
			meta = &Meta{}
		}

		if titleFromH1 && meta.Title == "" {
			meta.Title = ExtractDocumentLeadingH1(data)
		}
		if titleFromFilename && meta.Title == "" && filename != "" {
			setTitleFromFilename(meta, filename)
		}
	}

	if meta == nil {
		return nil, data, nil
	}

	meta.Title = strings.TrimSpace(meta.Title)

	return meta, data[offset:], nil
}

// parseMacro splits `\name = expansion`.
func parseMacro(value string) (string, string, error) {
	name, expansion, ok := strings.Cut(value, "=")
	if !ok {
		return "", "", fmt.Errorf("Macro header %q should look like: \\name = expansion", value)
	}

	name = strings.TrimSpace(name)
	expansion = strings.TrimSpace(expansion)

	if !strings.HasPrefix(name, `\`) || len(name) < 2 {
		return "", "", fmt.Errorf("Macro name %q must start with a backslash", name)
	}

	return name, expansion, nil
}

func setTitleFromFilename(meta *Meta, filename string) {
	base := filepath.Base(filename)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	title = strings.ReplaceAll(title, "_", " ")
	title = strings.ReplaceAll(title, "-", " ")
	meta.Title = cases.Title(language.English).String(title)
}

// ExtractDocumentLeadingH1 will extract leading H1 heading
func ExtractDocumentLeadingH1(markdown []byte) string {
	h1 := regexp.MustCompile(`#[^#]\s*(.*)\s*\n`)
	groups := h1.FindSubmatch(markdown)
	if groups == nil {
		return ""
	} else {
		return string(groups[1])
	}
}
