package main

import (
	"strings"

	"github.com/starford/savscan/internal"
)

// invocation is a scan request plus the config path, assembled from flags
// that may appear on either side of the save path.
type invocation struct {
	config  string
	help    bool
	version bool
	req     internal.Request
}

// parse reads the scan arguments. The first bare argument is the save path
// and the last later one is the value target. Recognised flags are applied
// wherever they appear; unknown dash arguments and a value flag with nothing
// after it are ignored.
func (inv *invocation) parse(args []string) {
	positional := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if positional || arg == "-" || !strings.HasPrefix(arg, "-") {
			inv.positional(arg)
			continue
		}
		if arg == "--" {
			positional = true
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		takeValue := func() (string, bool) {
			if hasValue {
				return value, true
			}
			if i+1 < len(args) {
				i++
				return args[i], true
			}
			return "", false
		}

		switch name {
		case "key", "k":
			if v, ok := takeValue(); ok {
				inv.req.Key = v
			}
		case "format", "f":
			if v, ok := takeValue(); ok {
				inv.req.Format = v
			}
		case "config", "c":
			if v, ok := takeValue(); ok {
				inv.config = v
			}
		case "case-sensitive":
			inv.req.CaseSensitive = boolValue(value, hasValue)
		case "no-color":
			inv.req.NoColor = boolValue(value, hasValue)
		case "watch", "w":
			inv.req.Watch = boolValue(value, hasValue)
		case "help", "h":
			inv.help = true
		case "version":
			inv.version = true
		}
	}
}

func (inv *invocation) positional(arg string) {
	if inv.req.Path == "" {
		inv.req.Path = arg
		return
	}
	inv.req.Value = arg
}

func boolValue(value string, hasValue bool) bool {
	if !hasValue {
		return true
	}
	switch strings.ToLower(value) {
	case "1", "t", "true", "yes":
		return true
	}
	return false
}
