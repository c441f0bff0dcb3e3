// Package buildfile parses the `adept.build` project file, §6's flat
// key/value document with a closed key set: `adept` (required version
// string), `main` (required relative path to the root source file),
// and the optional `interval_ms`, `max_idle_time_ms`, `cache_to_disk`
// daemon-timing knobs (SPEC_FULL.md supplemented feature 5).
package buildfile

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// File is the typed, validated form of an adept.build document.
type File struct {
	Adept         string
	Main          string
	IntervalMs    int64
	MaxIdleTimeMs int64
	CacheToDisk   bool
}

const (
	keyAdept         = "adept"
	keyMain          = "main"
	keyIntervalMs    = "interval_ms"
	keyMaxIdleTimeMs = "max_idle_time_ms"
	keyCacheToDisk   = "cache_to_disk"
)

var recognizedKeys = map[string]bool{
	keyAdept:         true,
	keyMain:          true,
	keyIntervalMs:    true,
	keyMaxIdleTimeMs: true,
	keyCacheToDisk:   true,
}

const requiredAdeptVersion = "3.0"

// Parse tokenizes data (the contents of an adept.build file named name,
// used only for error messages) into a File.
//
// adept.build shares go.mod's line grammar — one statement per line,
// `//` line comments, bare or double-quoted tokens — but not its fixed
// verb set: go.mod's `modfile.Parse` hard-rejects any directive outside
// {go, module, require, exclude, replace, retract} and further expects
// `require`'s second token to parse as a semver version, neither of
// which fits adept.build's arbitrary flat keys. So this tokenizes with
// a small scanner in the same style (ported from the rules
// `modfile`'s lexer applies to each line: strip `//` comments, split on
// whitespace, unquote double-quoted tokens) rather than calling into
// `modfile` itself.
func Parse(name string, data []byte) (*File, error) {
	seen := make(map[string][]string)
	order := []string{}

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		tokens, err := tokenizeLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		if len(tokens) == 0 {
			continue
		}
		key := tokens[0]
		if !recognizedKeys[key] {
			return nil, fmt.Errorf("%s:%d: unknown key %q", name, lineNo, key)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%s:%d: repeated key %q", name, lineNo, key)
		}
		seen[key] = tokens[1:]
		order = append(order, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	f := &File{IntervalMs: -1, MaxIdleTimeMs: -1}

	for _, key := range order {
		args := seen[key]
		switch key {
		case keyAdept:
			if len(args) != 1 {
				return nil, fmt.Errorf("%s: usage: adept <version>", name)
			}
			f.Adept = args[0]
		case keyMain:
			if len(args) != 1 {
				return nil, fmt.Errorf("%s: usage: main <path>", name)
			}
			f.Main = args[0]
		case keyIntervalMs:
			v, err := parseInt64Arg(name, key, args)
			if err != nil {
				return nil, err
			}
			f.IntervalMs = v
		case keyMaxIdleTimeMs:
			v, err := parseInt64Arg(name, key, args)
			if err != nil {
				return nil, err
			}
			f.MaxIdleTimeMs = v
		case keyCacheToDisk:
			if len(args) != 1 {
				return nil, fmt.Errorf("%s: usage: cache_to_disk <true|false>", name)
			}
			b, err := strconv.ParseBool(args[0])
			if err != nil {
				return nil, fmt.Errorf("%s: invalid bool for cache_to_disk: %v", name, err)
			}
			f.CacheToDisk = b
		}
	}

	if f.Adept == "" {
		return nil, fmt.Errorf("%s: missing required key \"adept\"", name)
	}
	if f.Adept != requiredAdeptVersion {
		return nil, fmt.Errorf("%s: unsupported adept version %q (want %q)", name, f.Adept, requiredAdeptVersion)
	}
	if f.Main == "" {
		return nil, fmt.Errorf("%s: missing required key \"main\"", name)
	}

	return f, nil
}

func parseInt64Arg(name, key string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s: usage: %s <milliseconds>", name, key)
	}
	v, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer for %s: %v", name, key, err)
	}
	return v, nil
}

// tokenizeLine splits one line into whitespace-separated tokens, after
// stripping a `//` line comment, honoring double-quoted tokens that may
// themselves contain whitespace.
func tokenizeLine(line string) ([]string, error) {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	var tokens []string
	for len(line) > 0 {
		line = strings.TrimLeft(line, " \t")
		if line == "" {
			break
		}
		if line[0] == '"' {
			end := -1
			for i := 1; i < len(line); i++ {
				if line[i] == '\\' {
					i++
					continue
				}
				if line[i] == '"' {
					end = i
					break
				}
			}
			if end < 0 {
				return nil, fmt.Errorf("unterminated quoted token")
			}
			unquoted, err := strconv.Unquote(line[:end+1])
			if err != nil {
				return nil, fmt.Errorf("invalid quoted token: %w", err)
			}
			tokens = append(tokens, unquoted)
			line = line[end+1:]
			continue
		}
		end := strings.IndexAny(line, " \t")
		if end < 0 {
			tokens = append(tokens, line)
			break
		}
		tokens = append(tokens, line[:end])
		line = line[end:]
	}
	return tokens, nil
}
