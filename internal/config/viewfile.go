package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	mandel "github.com/marben/fractalbg"
)

// ReadViewFile loads and validates a view saved by WriteViewFile.
func ReadViewFile(path string) (mandel.View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mandel.View{}, fmt.Errorf("read view file: %w", err)
	}

	var v mandel.View
	if err := yaml.Unmarshal(data, &v); err != nil {
		return mandel.View{}, fmt.Errorf("parse view file %q: %w", path, err)
	}
	if err := v.Validate(); err != nil {
		return mandel.View{}, fmt.Errorf("view file %q: %w", path, err)
	}
	return v, nil
}

// WriteViewFile saves v as YAML so a randomized view can be replayed.
func WriteViewFile(path string, v mandel.View) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal view: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write view file: %w", err)
	}
	return nil
}
