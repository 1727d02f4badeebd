package variables

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	composeerrors "github.com/serverless/compose/pkg/errors"
	"github.com/serverless/compose/pkg/logging"
)

// DefaultMaxPasses bounds the number of full resolution passes over a
// document. Each pass that substitutes something triggers another one.
const DefaultMaxPasses = 100

// placeholderPattern matches ${source:path}. The path may contain further
// colons, which only the env source gives a meaning to.
var placeholderPattern = regexp.MustCompile(`\$\{(\w+):([\w.\-:]+)\}`)

// Resolver rewrites ${source:path} placeholders in a composition document.
type Resolver struct {
	// Stage substitutes ${sls:stage}.
	Stage string
	// LookupEnv resolves ${env:NAME}. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// MaxPasses bounds the fixpoint iteration. Defaults to DefaultMaxPasses.
	MaxPasses int
}

// New returns a Resolver for stage reading the process environment.
func New(stage string) *Resolver {
	return &Resolver{
		Stage:     stage,
		LookupEnv: os.LookupEnv,
		MaxPasses: DefaultMaxPasses,
	}
}

// Resolve resolves cfg for stage using the process environment.
func Resolve(cfg map[string]any, stage string) (map[string]any, error) {
	return New(stage).Resolve(cfg)
}

// Resolve returns a resolved copy of cfg; cfg itself is left untouched.
//
// Passes over the whole document repeat until one makes no substitution,
// since a substitution can reveal a placeholder that did not exist before.
// Placeholders with unknown sources are collected across passes and reported
// together once the document is stable. A missing environment variable fails
// immediately.
func (r *Resolver) Resolve(cfg map[string]any) (map[string]any, error) {
	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	maxPasses := r.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	var unrecognized []string
	seen := map[string]bool{}

	var current any = cfg
	for pass := 1; pass <= maxPasses; pass++ {
		substitutions := 0

		next, err := Walk(current, func(path, value string) (string, error) {
			var resolveErr error
			out := placeholderPattern.ReplaceAllStringFunc(value, func(match string) string {
				if resolveErr != nil {
					return match
				}
				groups := placeholderPattern.FindStringSubmatch(match)
				source, address := groups[1], groups[2]

				switch {
				case source == "sls" && address == "stage":
					substitutions++
					return r.Stage
				case source == "env":
					name, _, _ := strings.Cut(address, ":")
					envValue, ok := lookup(name)
					if !ok {
						resolveErr = missingEnvError(name, path)
						return match
					}
					// A placeholder spanning the whole value and an embedded
					// one both end up as plain string content.
					substitutions++
					return envValue
				default:
					if !seen[source] {
						seen[source] = true
						unrecognized = append(unrecognized, source)
					}
					return match
				}
			})
			if resolveErr != nil {
				return "", resolveErr
			}
			return out, nil
		})
		if err != nil {
			return nil, err
		}
		current = next

		logging.Debug("Variables", "Resolution pass %d made %d substitutions", pass, substitutions)
		if substitutions > 0 {
			continue
		}

		if len(unrecognized) > 0 {
			return nil, unrecognizedSourcesError(unrecognized)
		}
		return current.(map[string]any), nil
	}

	return nil, composeerrors.NewWithContext(
		composeerrors.ErrCodeResolutionLimit,
		fmt.Sprintf("variables could not be resolved within %d passes, check for self-referencing values", maxPasses),
		map[string]any{"passes": maxPasses},
	)
}

func missingEnvError(name, path string) error {
	return composeerrors.NewWithContext(
		composeerrors.ErrCodeMissingEnvVariable,
		fmt.Sprintf("environment variable %q referenced in %q is not set", name, path),
		map[string]any{"name": name, "path": path},
	)
}

func unrecognizedSourcesError(sources []string) error {
	quoted := make([]string, len(sources))
	for i, s := range sources {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return composeerrors.NewWithContext(
		composeerrors.ErrCodeUnrecognizedVariableSources,
		fmt.Sprintf("unrecognized variable sources: %s. Only \"sls\" (${sls:stage}) and \"env\" (${env:NAME}) are supported", strings.Join(quoted, ", ")),
		map[string]any{"sources": append([]string(nil), sources...)},
	)
}

// MissingVariable returns the environment variable name of a
// MISSING_ENV_VARIABLE error.
func MissingVariable(err error) (string, bool) {
	return contextValue[string](err, composeerrors.ErrCodeMissingEnvVariable, "name")
}

// UnrecognizedSources returns the sources of an UNRECOGNIZED_VARIABLE_SOURCES
// error in first-seen order.
func UnrecognizedSources(err error) ([]string, bool) {
	return contextValue[[]string](err, composeerrors.ErrCodeUnrecognizedVariableSources, "sources")
}

func contextValue[T any](err error, code composeerrors.ErrorCode, key string) (T, bool) {
	var zero T
	var se *composeerrors.StructuredError
	if !errors.As(err, &se) || se.Code != code {
		return zero, false
	}
	v, ok := se.Context[key].(T)
	return v, ok
}
