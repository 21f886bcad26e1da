package provider

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a yaml data file over the built-in sample data. Sections the
// file leaves out keep their defaults.
func LoadFile(path string) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	var override Data
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", path, err)
	}

	data := Default()
	if override.DefaultRange != "" {
		data.DefaultRange = override.DefaultRange
	}
	if len(override.Ranges) > 0 {
		data.Ranges = override.Ranges
		if override.DefaultRange == "" {
			data.DefaultRange = override.Ranges[0].Key
		}
	}
	if len(override.Allocation) > 0 {
		data.Allocation = override.Allocation
	}
	if len(override.Sectors) > 0 {
		data.Sectors = override.Sectors
	}
	if len(override.TopPerformers) > 0 {
		data.TopPerformers = override.TopPerformers
	}
	if len(override.Friends) > 0 {
		data.Friends = override.Friends
	}
	if len(override.Catalog) > 0 {
		data.Catalog = override.Catalog
	}
	if override.Challenge != nil {
		if err := override.Challenge.Validate(); err != nil {
			return nil, fmt.Errorf("data file %s: %w", path, err)
		}
		data.Challenge = override.Challenge
	}
	if len(override.Activity) > 0 {
		data.Activity = override.Activity
	}
	return NewStatic(data), nil
}
