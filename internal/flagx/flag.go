// Package flagx separates flags from subcommand arguments so that config
// loaders and the command dispatcher can each read only their own part of
// os.Args.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// Terminator ends flag processing; everything after it is positional.
const Terminator = "--"

// FilterArgs returns only the allowed flags (and their values) from args.
//
// Supported forms:
//
//	-d dsn        flag and value as separate arguments
//	-d=dsn        flag and value joined with '='
//
// A separate value is taken only when the next argument does not itself look
// like a flag. Nothing after Terminator is considered.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == Terminator {
			break
		}

		if isFlag(arg) && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !isFlag(args[i+1]) {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// Positional returns the arguments that are neither flags nor flag values.
// Unknown flags are dropped; use Split to see them.
func Positional(args []string, valueFlags []string) []string {
	pos, _ := Split(args, valueFlags)
	return pos
}

// Split separates args into positional arguments and unknown flags.
//
// valueFlags lists the flags the program accepts; each takes a separate
// value (e.g. "-d dsn") or a joined one ("-d=dsn"). Any other argument
// starting with '-' is returned in unknown. Arguments after Terminator are
// positional verbatim, which lets an operator pass values that start with
// '-'.
func Split(args []string, valueFlags []string) (positional, unknown []string) {
	takesValue := make(map[string]struct{}, len(valueFlags))
	for _, f := range valueFlags {
		takesValue[f] = struct{}{}
	}

	positional = make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == Terminator {
			return append(positional, args[i+1:]...), unknown
		}

		if !isFlag(arg) {
			positional = append(positional, arg)
			continue
		}

		name := strings.SplitN(arg, "=", 2)[0]
		if _, ok := takesValue[name]; !ok {
			unknown = append(unknown, arg)
			continue
		}

		if name == arg && i+1 < len(args) && !isFlag(args[i+1]) {
			i++
		}
	}

	return positional, unknown
}

// JsonConfigFlags returns the config file path given with -c or -config,
// or an empty string when neither is present.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}

func isFlag(s string) bool {
	return len(s) > 1 && strings.HasPrefix(s, "-")
}
