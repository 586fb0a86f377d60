// Package config loads named connection profiles from a vidtexrc file
// searched for in the system, home, and current-directory paths. The
// format is a flat, single-record-per-line text file with no nesting.
package config

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RCFileName is the profile file name searched for in the system, home,
// and current-directory paths.
const RCFileName = "vidtexrc"

// MaxAmbleLen bounds the preamble/postamble byte arrays.
const MaxAmbleLen = 10

// Profile is one named connection entry: "name|host|port|preamble-ints|postamble-ints".
type Profile struct {
	Name      string
	Host      string
	Port      int
	Preamble  []byte
	Postamble []byte
}

// SearchPaths returns the system, home, and current-directory candidates
// for the vidtexrc file, in search order.
func SearchPaths() []string {
	paths := []string{filepath.Join("/etc", RCFileName)}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+RCFileName))
	}

	paths = append(paths, RCFileName)
	return paths
}

// Load parses every file in SearchPaths that exists and merges their
// entries into one profile set. Entries from later paths override
// earlier ones of the same name, so a home or current-directory file can
// refine the system one. It is not an error for none to exist; Load then
// returns an empty profile set.
func Load() (map[string]Profile, error) {
	return loadPaths(SearchPaths())
}

func loadPaths(paths []string) (map[string]Profile, error) {
	profiles := make(map[string]Profile)

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "config: open %s", path)
		}

		parsed, err := Parse(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "config: %s", path)
		}

		for name, p := range parsed {
			profiles[name] = p
		}
	}

	return profiles, nil
}

// Parse reads profile entries from r. Blank lines and lines starting with
// '#' are comments. Fields are separated by any run of tab, comma, or
// pipe characters.
func Parse(r io.Reader) (map[string]Profile, error) {
	profiles := make(map[string]Profile)
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "config: line %d", lineNo)
		}
		profiles[p.Name] = p
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "config: scan")
	}

	return profiles, nil
}

func parseLine(line string) (Profile, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == '\t' || r == ',' || r == '|'
	})
	if len(fields) < 3 {
		return Profile{}, errors.Errorf("expected at least 3 fields, got %d", len(fields))
	}

	port, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return Profile{}, errors.Wrapf(err, "invalid port %q", fields[2])
	}

	p := Profile{
		Name: strings.TrimSpace(fields[0]),
		Host: strings.TrimSpace(fields[1]),
		Port: port,
	}

	if len(fields) > 3 {
		p.Preamble = parseAmble(fields[3])
	}
	if len(fields) > 4 {
		p.Postamble = parseAmble(fields[4])
	}

	return p, nil
}

func parseAmble(field string) []byte {
	parts := strings.FieldsFunc(field, func(r rune) bool { return r == ' ' || r == ';' })
	amble := make([]byte, 0, len(parts))
	for _, part := range parts {
		if len(amble) >= MaxAmbleLen {
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		amble = append(amble, byte(n))
	}
	return amble
}

// DefaultPostamble is sent on disconnect when a profile defines none,
// terminating the videotex session cleanly.
var DefaultPostamble = []byte{'*', '9', '0', '_'}
