package templates

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jordanella.com/jianghu-auto/internal/cv"
	"jordanella.com/jianghu-auto/internal/logging"
)

// Template is a reference image of one UI element
type Template struct {
	Name      string
	Path      string
	Image     *image.Gray
	Threshold float64    // 0 means use the caller's threshold
	Region    *cv.Region // optional search rectangle
}

// MatchConfig builds the cv config for this template, preferring its own
// threshold over fallback
func (t Template) MatchConfig(fallback float64) *cv.MatchConfig {
	config := &cv.MatchConfig{Threshold: fallback}
	if t.Threshold > 0 {
		config.Threshold = t.Threshold
	}
	if t.Region != nil && !t.Region.Empty() {
		config.SearchRegion = t.Region.ToImageRectangle()
	}
	return config
}

// Library holds the templates loaded at startup, keyed by filename stem.
// It is read-only after Load returns.
type Library struct {
	dir       string
	templates map[string]Template
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// NewLibrary returns an empty library, mostly useful for tests
func NewLibrary(dir string) *Library {
	return &Library{
		dir:       dir,
		templates: make(map[string]Template),
	}
}

// Load reads every image in dir as a grayscale template. A missing directory
// is created and yields an empty library. If the directory holds a
// templates.yaml manifest its thresholds and regions are applied.
func Load(dir string, logger *logging.Logger) (*Library, error) {
	lib := NewLibrary(dir)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create template directory %s: %w", dir, err)
		}
		logger.Warn(fmt.Sprintf("Template directory %s did not exist, created an empty one", dir))
		return lib, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !imageExtensions[ext] {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		path := filepath.Join(dir, entry.Name())

		img, err := cv.LoadGray(path)
		if err != nil {
			logger.Error(fmt.Sprintf("Skipping template %s", entry.Name()), err)
			continue
		}

		if prev, exists := lib.templates[name]; exists {
			logger.Warn(fmt.Sprintf("Template %q from %s replaces %s", name, entry.Name(), filepath.Base(prev.Path)))
		}

		lib.templates[name] = Template{
			Name:  name,
			Path:  path,
			Image: img,
		}
		logger.Debug(fmt.Sprintf("Loaded template: %s", name))
	}

	manifestPath := filepath.Join(dir, ManifestFile)
	if _, err := os.Stat(manifestPath); err == nil {
		if err := lib.applyManifest(manifestPath, logger); err != nil {
			return nil, err
		}
	}

	logger.Info(fmt.Sprintf("Loaded %d template images", len(lib.templates)))
	return lib, nil
}

// Register adds or replaces a template
func (l *Library) Register(t Template) error {
	if t.Name == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	if t.Image == nil {
		return fmt.Errorf("template %s has no image", t.Name)
	}
	l.templates[t.Name] = t
	return nil
}

// Get retrieves a template by name
func (l *Library) Get(name string) (Template, bool) {
	t, ok := l.templates[name]
	return t, ok
}

// Has checks if a template exists in the library
func (l *Library) Has(name string) bool {
	_, ok := l.templates[name]
	return ok
}

// Names returns all template names, sorted
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of loaded templates
func (l *Library) Len() int {
	return len(l.templates)
}

// Dir returns the directory the library was loaded from
func (l *Library) Dir() string {
	return l.dir
}
