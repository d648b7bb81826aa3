package katex

import (
	"fmt"
	"strings"

	"github.com/kovetskiy/katexify/vfs"
	"github.com/reconquest/karma-go"
	"gopkg.in/yaml.v3"
)

// LoadMacros reads a YAML mapping of control sequences to expansions:
//
//	\RR: \mathbb{R}
//	\abs: \left|#1\right|
func LoadMacros(opener vfs.Opener, path string) (map[string]string, error) {
	data, err := vfs.ReadFile(opener, path)
	if err != nil {
		return nil, err
	}

	macros := map[string]string{}
	err = yaml.Unmarshal(data, &macros)
	if err != nil {
		return nil, karma.Format(err, "unable to decode macros file %q", path)
	}

	for name := range macros {
		if !strings.HasPrefix(name, `\`) {
			return nil, fmt.Errorf(
				"macro %q in %q must start with a backslash",
				name,
				path,
			)
		}
	}

	return macros, nil
}
