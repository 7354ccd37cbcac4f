package recommender

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/sample_resources.yaml
var sampleYAML []byte

type resourceFile struct {
	Resources []LearningResource `yaml:"resources"`
}

// SampleResources returns the built-in demo knowledge base.
func SampleResources() []LearningResource {
	res, err := parseResources(sampleYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded sample resources are invalid: %v", err))
	}
	return res
}

// LoadResources reads a YAML knowledge-base file, or every .yaml/.yml file
// in a directory in name order.
func LoadResources(path string) ([]LearningResource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return loadFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}
	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var all []LearningResource
	for _, name := range names {
		res, err := loadFile(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		all = append(all, res...)
	}
	return all, nil
}

func loadFile(path string) ([]LearningResource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	res, err := parseResources(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return res, nil
}

func parseResources(data []byte) ([]LearningResource, error) {
	var f resourceFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	for i, r := range f.Resources {
		if strings.TrimSpace(r.Topic) == "" {
			return nil, fmt.Errorf("resource %d: topic is required", i)
		}
		if strings.TrimSpace(r.Content) == "" {
			return nil, fmt.Errorf("resource %d (%s): content is required", i, r.Topic)
		}
	}
	return f.Resources, nil
}
