package templates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"jordanella.com/jianghu-auto/internal/cv"
	"jordanella.com/jianghu-auto/internal/logging"
)

// ManifestFile is the optional per-directory override file
const ManifestFile = "templates.yaml"

// Manifest is the structure of templates.yaml
type Manifest struct {
	Templates []ManifestEntry `yaml:"templates"`
}

// ManifestEntry overrides matching settings for one template image
type ManifestEntry struct {
	Name      string     `yaml:"name"`
	Threshold float64    `yaml:"threshold,omitempty"`
	Region    *RegionDef `yaml:"region,omitempty"`
}

// RegionDef represents a region in the YAML file
type RegionDef struct {
	X1 int `yaml:"x1"`
	Y1 int `yaml:"y1"`
	X2 int `yaml:"x2"`
	Y2 int `yaml:"y2"`
}

// ParseManifest decodes and validates manifest YAML
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template manifest: %w", err)
	}

	for i, entry := range m.Templates {
		if entry.Name == "" {
			return nil, fmt.Errorf("manifest entry %d: name cannot be empty", i+1)
		}
		if entry.Threshold < 0 || entry.Threshold > 1 {
			return nil, fmt.Errorf("manifest entry %d (%s): threshold %.2f outside [0,1]", i+1, entry.Name, entry.Threshold)
		}
		if entry.Region != nil {
			r := cv.NewRegion(entry.Region.X1, entry.Region.Y1, entry.Region.X2, entry.Region.Y2)
			if r.Empty() {
				return nil, fmt.Errorf("manifest entry %d (%s): region is empty", i+1, entry.Name)
			}
		}
	}

	return &m, nil
}

func (l *Library) applyManifest(path string, logger *logging.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read template manifest %s: %w", path, err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for _, entry := range m.Templates {
		t, ok := l.templates[entry.Name]
		if !ok {
			logger.Warn(fmt.Sprintf("Manifest entry %q has no template image, ignoring", entry.Name))
			continue
		}

		t.Threshold = entry.Threshold
		if entry.Region != nil {
			r := cv.NewRegion(entry.Region.X1, entry.Region.Y1, entry.Region.X2, entry.Region.Y2)
			t.Region = &r
		}
		l.templates[entry.Name] = t
	}

	return nil
}
