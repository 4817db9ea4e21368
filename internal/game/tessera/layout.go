package tessera

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tessera/internal/engine"
)

// Deck layouts can be supplied in a YAML file so operators can tune
// the card mix without a rebuild:
//
//	layouts:
//	  - name: standard
//	    counts: {1: 4, 2: 4, 3: 4, 4: 2}
//	  - name: sprint
//	    counts: {1: 8, 2: 6}
//
// Counts cover the fourteen numbered cards; the two jokers are always
// added by the engine.
type layoutFile struct {
	Layouts []layoutDef `yaml:"layouts"`
}

type layoutDef struct {
	Name   string      `yaml:"name"`
	Counts map[int]int `yaml:"counts"`
}

// ParseLayouts decodes and validates a layouts YAML document.
func ParseLayouts(data []byte) (map[string]engine.Layout, error) {
	var file layoutFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}
	if len(file.Layouts) == 0 {
		return nil, fmt.Errorf("parse layouts: no layouts defined")
	}
	layouts := make(map[string]engine.Layout, len(file.Layouts))
	for _, def := range file.Layouts {
		if def.Name == "" {
			return nil, fmt.Errorf("parse layouts: layout with empty name")
		}
		if _, dup := layouts[def.Name]; dup {
			return nil, fmt.Errorf("parse layouts: duplicate layout %q", def.Name)
		}
		l := engine.Layout{Counts: def.Counts}
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("layout %q: %w", def.Name, err)
		}
		layouts[def.Name] = l
	}
	return layouts, nil
}

// LoadLayouts reads a layouts YAML file from disk.
func LoadLayouts(path string) (map[string]engine.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layouts: %w", err)
	}
	return ParseLayouts(data)
}
