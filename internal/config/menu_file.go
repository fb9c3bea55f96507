package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Location is one independently refreshed menu source.
type Location struct {
	Name      string `yaml:"name"`
	SourceURL string `yaml:"source_url"`
}

// MenuFile is the optional YAML file named by MENU_CONFIG_FILE.
type MenuFile struct {
	Locations    []Location        `yaml:"locations"`
	ImageCatalog map[string]string `yaml:"image_catalog"`
}

// DefaultLocations returns the built-in restaurant locations.
func DefaultLocations() []Location {
	return []Location{
		{Name: "norwest", SourceURL: "https://mitrandadhabaglassyjunction.com.au/bvtodaysmenu.pdf"},
		{Name: "dural", SourceURL: "https://mitrandadhaba-dural.com.au/todaysmenu.pdf"},
	}
}

// ParseMenuFile decodes a menu YAML document.
func ParseMenuFile(data []byte) (*MenuFile, error) {
	var mf MenuFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse menu config: %w", err)
	}
	for i := range mf.Locations {
		mf.Locations[i].Name = strings.ToLower(strings.TrimSpace(mf.Locations[i].Name))
	}
	return &mf, nil
}

// ApplyMenuFile loads MenuConfigFile, if set, replacing the built-in
// locations and setting the curated image catalog.
func (c *Config) ApplyMenuFile() error {
	if c.MenuConfigFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.MenuConfigFile)
	if err != nil {
		return fmt.Errorf("failed to read menu config: %w", err)
	}
	mf, err := ParseMenuFile(data)
	if err != nil {
		return err
	}
	if len(mf.Locations) > 0 {
		c.Locations = mf.Locations
	}
	if len(mf.ImageCatalog) > 0 {
		c.ImageCatalog = make(map[string]string, len(mf.ImageCatalog))
		for name, u := range mf.ImageCatalog {
			c.ImageCatalog[strings.ToLower(strings.TrimSpace(name))] = u
		}
	}
	return nil
}
