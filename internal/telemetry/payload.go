package telemetry

import (
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/serverless/compose/internal/components"
	"github.com/serverless/compose/internal/router"
	composeerrors "github.com/serverless/compose/pkg/errors"
)

// Input is what a run knows about itself when it ends. Every field may be
// unset when the run ended early.
type Input struct {
	Configuration map[string]any
	Options       map[string]any
	Command       string
	ComponentName string
	Stage         string
	Verbose       bool
	Version       string
	Outcomes      []components.Outcome
	Error         error
	Signal        os.Signal
}

// Payload is one telemetry record. It never carries option values,
// parameter values or component names.
type Payload struct {
	ID               string         `json:"id"`
	Timestamp        time.Time      `json:"timestamp"`
	Version          string         `json:"version,omitempty"`
	Runtime          Runtime        `json:"runtime"`
	CI               bool           `json:"ci"`
	Stage            string         `json:"stage,omitempty"`
	Verbose          bool           `json:"verbose"`
	Command          string         `json:"command,omitempty"`
	HasComponentName bool           `json:"hasComponentName"`
	Options          []string       `json:"options,omitempty"`
	Components       ComponentStats `json:"components"`
	Outcomes         OutcomeStats   `json:"outcomes"`
	ErrorCode        string         `json:"errorCode,omitempty"`
	Signal           string         `json:"signal,omitempty"`
}

// Runtime describes the process platform.
type Runtime struct {
	Go   string `json:"go"`
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// ComponentStats summarises the composition.
type ComponentStats struct {
	Count         int `json:"count"`
	WithDependsOn int `json:"withDependsOn"`
	WithParams    int `json:"withParams"`
}

// OutcomeStats counts component command results.
type OutcomeStats struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// ciVariables are set by common CI providers.
var ciVariables = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"BUILD_NUMBER",
	"RUN_ID",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"JENKINS_URL",
	"CODEBUILD_BUILD_ID",
	"BITBUCKET_BUILD_NUMBER",
	"BUILDKITE",
}

var lookupEnv = os.LookupEnv

// Generate builds the payload for a run.
func Generate(in Input) Payload {
	p := Payload{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Version:   in.Version,
		Runtime: Runtime{
			Go:   runtime.Version(),
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
		CI:               isCI(),
		Stage:            in.Stage,
		Verbose:          in.Verbose,
		Command:          in.Command,
		HasComponentName: in.ComponentName != "",
		Options:          router.Options(in.Options).Names(),
		Components:       componentStats(in.Configuration),
	}

	for _, o := range in.Outcomes {
		if o.Status == components.StatusFailure {
			p.Outcomes.Failure++
		} else {
			p.Outcomes.Success++
		}
	}

	if in.Error != nil {
		p.ErrorCode = string(composeerrors.CodeOf(in.Error))
	}
	if in.Signal != nil {
		p.Signal = in.Signal.String()
	}
	return p
}

func isCI() bool {
	for _, name := range ciVariables {
		if v, ok := lookupEnv(name); ok && v != "" && v != "false" {
			return true
		}
	}
	return false
}

func componentStats(doc map[string]any) ComponentStats {
	var stats ComponentStats
	services, ok := doc["services"].(map[string]any)
	if !ok {
		return stats
	}
	for _, v := range services {
		stats.Count++
		spec, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if spec["dependsOn"] != nil {
			stats.WithDependsOn++
		}
		if spec["params"] != nil {
			stats.WithParams++
		}
	}
	return stats
}
