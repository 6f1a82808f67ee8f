package main

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// normalizeArgs rewrites the argparse-style forms existing release pipelines
// use into forms pflag understands:
//
//	--images a b c        -> --images a --images b --images c
//	--preserve-path false -> --preserve-path=false
//
// A slice flag consumes every following token up to the next one starting
// with "-". A bool flag consumes the next token only if it is a bool literal.
// Everything after "--" is passed through untouched.
func normalizeArgs(flags *pflag.FlagSet, args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		out = append(out, arg)

		name, hasValue := splitLongFlag(arg)
		if name == "" {
			continue
		}
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}

		switch flag.Value.Type() {
		case "stringSlice":
			if !hasValue && i+1 < len(args) && !isFlagToken(args[i+1]) {
				// pflag takes the first value itself.
				i++
				out = append(out, args[i])
			}
			for i+1 < len(args) && !isFlagToken(args[i+1]) {
				i++
				out = append(out, "--"+name, args[i])
			}
		case "bool":
			if hasValue || i+1 >= len(args) {
				continue
			}
			if _, err := strconv.ParseBool(args[i+1]); err == nil {
				i++
				out[len(out)-1] = "--" + name + "=" + args[i]
			}
		}
	}
	return out
}

// splitLongFlag returns the name of a "--name" or "--name=value" token and
// whether it carries an inline value. Anything else yields an empty name.
func splitLongFlag(arg string) (name string, hasValue bool) {
	if !strings.HasPrefix(arg, "--") || len(arg) == 2 {
		return "", false
	}
	name, _, hasValue = strings.Cut(arg[2:], "=")
	return name, hasValue
}

func isFlagToken(arg string) bool {
	return strings.HasPrefix(arg, "-") && len(arg) > 1
}
