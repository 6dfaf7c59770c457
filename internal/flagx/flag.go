// Package flagx picks individual flags out of os.Args so that each
// configuration layer can parse only what it owns.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs returns the arguments that belong to allowedFlags, keeping
// their values. Both "-c conf.json" and "--config=conf.json" forms are
// recognized; everything else, positional arguments included, is dropped.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	// never nil
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "-flag=value"
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		// "-flag value"; a following dash-prefixed token is not a value
		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// Positional returns the arguments that are neither flags nor the values
// of valueFlags. "--name" is treated like "-name".
func Positional(args []string, valueFlags []string) []string {
	takesValue := make(map[string]struct{}, len(valueFlags))
	for _, f := range valueFlags {
		takesValue[f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			out = append(out, arg)
			continue
		}

		name, _, inline := strings.Cut(arg, "=")
		if _, ok := takesValue["-"+strings.TrimLeft(name, "-")]; ok && !inline {
			i++
		}
	}
	return out
}

// lookup parses a single string flag known under a short and a long name.
// The last occurrence wins; missing flags yield def.
func lookup(short, long, def string) string {
	value := def

	args := FilterArgs(os.Args[1:], []string{"-" + short, "-" + long, "--" + short, "--" + long})

	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&value, long, def, "")
	fs.StringVar(&value, short, def, "")
	_ = fs.Parse(args)

	return value
}

// JsonConfigFlags returns the config file path given with -c or -config,
// or "" when neither is present.
func JsonConfigFlags() string {
	return lookup("c", "config", "")
}

// DefaultEnvFile is read when no -e/-env flag is given.
const DefaultEnvFile = ".env"

// EnvFileFlags returns the dotenv file path given with -e or -env, and
// whether it was set explicitly.
func EnvFileFlags() (string, bool) {
	path := lookup("e", "env", "")
	if path == "" {
		return DefaultEnvFile, false
	}
	return path, true
}
