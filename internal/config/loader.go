package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	composeerrors "github.com/serverless/compose/pkg/errors"
	"github.com/serverless/compose/pkg/logging"
)

// FileNames lists the composition document names looked up in the working
// directory, in order.
var FileNames = []string{"serverless-compose.yml", "serverless-compose.yaml"}

// Locate returns the path of the composition document in dir.
func Locate(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", composeerrors.Wrap(composeerrors.ErrCodeInvalidConfigurationFormat,
				fmt.Sprintf("cannot access %s", path), err)
		}
	}
	return "", composeerrors.NewWithContext(
		composeerrors.ErrCodeConfigurationNotFound,
		fmt.Sprintf("no serverless-compose.yml file found in %s", dir),
		map[string]any{"dir": dir},
	)
}

// Load reads and parses the composition document at path into a generic
// tree of mappings, sequences and scalars.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, composeerrors.Wrap(composeerrors.ErrCodeInvalidConfigurationFormat,
			fmt.Sprintf("cannot read %s", filepath.Base(path)), err)
	}
	return Parse(data, filepath.Base(path))
}

// Parse decodes a composition document. name is used in error messages.
func Parse(data []byte, name string) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, composeerrors.Wrap(composeerrors.ErrCodeInvalidConfigurationFormat,
			fmt.Sprintf("cannot parse %s", name), err)
	}
	if doc == nil {
		return nil, composeerrors.Newf(composeerrors.ErrCodeInvalidConfigurationFormat,
			"%s is empty or is not a mapping", name)
	}
	logging.Debug("ConfigLoader", "Parsed %s with %d top-level keys", name, len(doc))
	return doc, nil
}
