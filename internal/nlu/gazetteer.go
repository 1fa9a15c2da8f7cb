package nlu

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Gazetteer is the configurable vocabulary backing location and category
// slots. Entries are matched case-insensitively on word boundaries.
type Gazetteer struct {
	Locations  []string `yaml:"locations"`
	Categories []string `yaml:"categories"`
}

// DefaultGazetteer covers enough ground for the built-in skills; hosts ship
// their own file for anything serious.
func DefaultGazetteer() *Gazetteer {
	return &Gazetteer{
		Locations: []string{
			"london", "paris", "berlin", "madrid", "rome", "warsaw",
			"new york", "tokyo", "sydney", "amsterdam",
		},
		Categories: []string{
			"weather", "news", "music", "sports", "movies", "food",
		},
	}
}

// LoadGazetteer reads a YAML gazetteer file. A missing file falls back to
// the defaults.
func LoadGazetteer(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultGazetteer(), nil
		}
		return nil, fmt.Errorf("failed to read gazetteer: %w", err)
	}

	g := &Gazetteer{}
	if err := yaml.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("failed to parse gazetteer: %w", err)
	}
	return g, nil
}
