package router

import (
	"sort"
	"strings"
	"unicode/utf8"

	composeerrors "github.com/serverless/compose/pkg/errors"
)

// PositionalKey is the Options key holding the positional tokens.
const PositionalKey = "_"

// Options holds parsed command line options keyed by flag name. Flags given
// without a value are true, repeated flags collect into a []any.
type Options map[string]any

// booleanFlags never consume the following token as their value.
var booleanFlags = map[string]bool{
	"help":    true,
	"h":       true,
	"verbose": true,
}

// reservedOptions are accepted by the single-service framework but not by
// the composition driver.
var reservedOptions = []string{"debug", "config", "c", "param"}

// ParseArgs turns raw command line tokens into Options. Component commands
// accept arbitrary flags, so unknown flags are kept rather than rejected.
func ParseArgs(tokens []string) Options {
	opts := Options{}
	var positional []string

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case tok == "--":
			positional = append(positional, tokens[i+1:]...)
			i = len(tokens)

		case strings.HasPrefix(tok, "--") && len(tok) > 2:
			name := tok[2:]
			if k, v, ok := strings.Cut(name, "="); ok {
				opts.add(k, v)
				continue
			}
			if k, ok := strings.CutPrefix(name, "no-"); ok && !booleanFlags[name] {
				opts.add(k, false)
				continue
			}
			if !booleanFlags[name] && i+1 < len(tokens) && !isFlag(tokens[i+1]) {
				opts.add(name, tokens[i+1])
				i++
				continue
			}
			opts.add(name, true)

		case strings.HasPrefix(tok, "-") && len(tok) > 1:
			letters := tok[1:]
			if k, v, ok := strings.Cut(letters, "="); ok {
				opts.add(k, v)
				continue
			}
			// -abc sets a, b and c; only the last letter may take a value.
			r, size := utf8.DecodeLastRuneInString(letters)
			for _, l := range letters[:len(letters)-size] {
				opts.add(string(l), true)
			}
			last := string(r)
			if !booleanFlags[last] && i+1 < len(tokens) && !isFlag(tokens[i+1]) {
				opts.add(last, tokens[i+1])
				i++
				continue
			}
			opts.add(last, true)

		default:
			positional = append(positional, tok)
		}
	}

	list := make([]any, len(positional))
	for i, p := range positional {
		list[i] = p
	}
	opts[PositionalKey] = list
	return opts
}

func isFlag(tok string) bool {
	return strings.HasPrefix(tok, "-") && len(tok) > 1
}

func (o Options) add(key string, value any) {
	existing, ok := o[key]
	if !ok {
		o[key] = value
		return
	}
	if list, ok := existing.([]any); ok {
		o[key] = append(list, value)
		return
	}
	o[key] = []any{existing, value}
}

// Positional returns the positional tokens.
func (o Options) Positional() []string {
	list, _ := o[PositionalKey].([]any)
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// String returns the last string value given for key.
func (o Options) String(key string) (string, bool) {
	switch v := o[key].(type) {
	case string:
		return v, true
	case []any:
		for i := len(v) - 1; i >= 0; i-- {
			if s, ok := v[i].(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

// Bool reports whether key was set to a truthy value.
func (o Options) Bool(key string) bool {
	switch v := o[key].(type) {
	case bool:
		return v
	case string:
		return v != "" && v != "false"
	case []any:
		return len(v) > 0
	}
	return false
}

// Clone returns a shallow copy of the options.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Names returns the option names, excluding positional tokens, sorted.
func (o Options) Names() []string {
	names := make([]string, 0, len(o))
	for k := range o {
		if k == PositionalKey {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Stage returns the --stage option, "dev" when absent.
func (o Options) Stage() string {
	if s, ok := o.String("stage"); ok && s != "" {
		return s
	}
	return DefaultStage
}

// Verbose reports whether --verbose was given.
func (o Options) Verbose() bool {
	return o.Bool("verbose")
}

// CheckReserved rejects options the composition driver does not support.
// It runs before any configuration work.
func CheckReserved(opts Options) error {
	var used []string
	for _, name := range reservedOptions {
		if _, ok := opts[name]; ok {
			used = append(used, optionFlag(name))
		}
	}
	if len(used) == 0 {
		return nil
	}
	return composeerrors.NewWithContext(
		composeerrors.ErrCodeUnsupportedOptions,
		"the following options are not supported by serverless-compose: "+strings.Join(used, ", "),
		map[string]any{"options": used},
	)
}

func optionFlag(name string) string {
	if len(name) == 1 {
		return "-" + name
	}
	return "--" + name
}
