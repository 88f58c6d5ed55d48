package browser

import (
	"fmt"
	"sort"
	"strings"
)

// argSafeBytes are characters passed through unescaped in arg and global
// values. The Storybook URL contract keeps these literal inside the args
// parameter; everything else outside [A-Za-z0-9] is percent-encoded.
const argSafeBytes = "-_.!~*'()"

// StoryURL builds the full URL for a story with optional args and globals,
// e.g. <base>/?path=/story/<id>&args=size:large;disabled:!true&globals=themeMode:dark.
func StoryURL(base, storyID string, args, globals map[string]string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(base, "/"))
	sb.WriteString("/?path=/story/")
	sb.WriteString(storyID)
	if q := BuildArgsQuery(args); q != "" {
		sb.WriteString("&args=")
		sb.WriteString(q)
	}
	if q := BuildGlobalsQuery(globals); q != "" {
		sb.WriteString("&globals=")
		sb.WriteString(q)
	}
	return sb.String()
}

// BuildArgsQuery renders story args as the args parameter value:
// key:value pairs joined by semicolons, boolean values in the !true/!false
// form, spaces as '+'. Keys are emitted in sorted order so the same arg set
// always produces the same URL.
func BuildArgsQuery(args map[string]string) string {
	return joinPairs(args)
}

// BuildGlobalsQuery renders story globals (themeMode etc.) in the same
// key:value form as args.
func BuildGlobalsQuery(globals map[string]string) string {
	return joinPairs(globals)
}

func joinPairs(kv map[string]string) string {
	if len(kv) == 0 {
		return ""
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+":"+encodeArgValue(kv[k]))
	}
	return strings.Join(pairs, ";")
}

// encodeArgValue encodes a single arg value. Booleans use the Storybook
// !true/!false form, spaces become '+', and other reserved characters are
// percent-encoded.
func encodeArgValue(v string) string {
	switch v {
	case "true":
		return "!true"
	case "false":
		return "!false"
	}

	var sb strings.Builder
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c == ' ':
			sb.WriteByte('+')
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			sb.WriteByte(c)
		case strings.IndexByte(argSafeBytes, c) >= 0:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, "%%%02X", c)
		}
	}
	return sb.String()
}
