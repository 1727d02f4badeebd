package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	composeerrors "github.com/serverless/compose/pkg/errors"
)

// Component is one entry under "services" in a resolved composition document.
type Component struct {
	// Name is the key under "services".
	Name string
	// Path is the absolute directory of the component.
	Path string
	// DependsOn lists components that must be deployed first, explicit ones
	// followed by those implied by output references in Params.
	DependsOn []string
	// Params are passed to the component as --param key=value.
	Params map[string]any
	// Config optionally names the framework configuration file of the component.
	Config string
}

// outputReference matches ${component.output} references between components.
var outputReference = regexp.MustCompile(`\$\{([\w-]+)\.[\w.\-]+\}`)

// Components extracts the components of a validated, resolved document.
// Relative component paths are resolved against root. Every problem found is
// reported in a single INVALID_COMPONENT_PATH error.
func Components(doc map[string]any, root string) ([]Component, error) {
	services, ok := asMapping(doc["services"])
	if !ok {
		return nil, composeerrors.New(composeerrors.ErrCodeInvalidConfigurationShape,
			`"services" in serverless-compose.yml must be a mapping of component names to definitions`)
	}

	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)

	var problems ValidationErrors
	components := make([]Component, 0, len(names))
	for _, name := range names {
		field := "services." + name
		spec, ok := asMapping(services[name])
		if !ok {
			problems.Add(field, "must be a mapping with at least a \"path\"")
			continue
		}

		c := Component{Name: name}

		rel, _ := spec["path"].(string)
		if rel == "" {
			problems.Add(field+".path", "is required")
			continue
		}
		c.Path = rel
		if !filepath.IsAbs(c.Path) {
			c.Path = filepath.Join(root, rel)
		}
		info, err := os.Stat(c.Path)
		switch {
		case err != nil:
			problems.Add(field+".path", "%q does not exist", rel)
			continue
		case !info.IsDir():
			problems.Add(field+".path", "%q is not a directory", rel)
			continue
		}

		if cfg, ok := spec["config"].(string); ok {
			c.Config = cfg
		}

		deps, err := dependsOn(spec["dependsOn"])
		if err != nil {
			problems.Add(field+".dependsOn", "%v", err)
			continue
		}

		if params, ok := asMapping(spec["params"]); ok {
			c.Params = params
			deps = appendUnique(deps, referencedComponents(params)...)
		} else if spec["params"] != nil {
			problems.Add(field+".params", "must be a mapping")
			continue
		}
		c.DependsOn = deps

		components = append(components, c)
	}

	if problems.HasErrors() {
		return nil, composeerrors.Wrap(composeerrors.ErrCodeInvalidComponentPath,
			"invalid component definitions in serverless-compose.yml", problems)
	}
	return components, nil
}

func dependsOn(v any) ([]string, error) {
	switch d := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{d}, nil
	case []any:
		out := make([]string, 0, len(d))
		for _, item := range d {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("entries must be component names, got %v", item)
			}
			out = appendUnique(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a component name or a list of component names")
	}
}

func referencedComponents(params map[string]any) []string {
	var refs []string
	collectReferences(params, &refs)
	return refs
}

func collectReferences(v any, refs *[]string) {
	switch val := v.(type) {
	case string:
		for _, m := range outputReference.FindAllStringSubmatch(val, -1) {
			*refs = appendUnique(*refs, m[1])
		}
	case []any:
		for _, item := range val {
			collectReferences(item, refs)
		}
	default:
		if m, ok := asMapping(v); ok {
			for _, k := range sortedKeys(m) {
				collectReferences(m[k], refs)
			}
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range list {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			list = append(list, item)
		}
	}
	return list
}
