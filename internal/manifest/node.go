// Package manifest reads and updates the host's package.json and composer.json.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DevDependenciesKey is the package.json section the CMS packages are merged into.
const DevDependenciesKey = "devDependencies"

// Dependencies maps a package name to a version range.
type Dependencies map[string]string

// Validate checks that every value written as a version range is a parseable
// semver constraint. Dist-tags, protocol specifiers (workspace:, npm:, file:)
// and URLs are passed through to the package manager unchecked.
func (d Dependencies) Validate() error {
	names := d.Names()
	var errs []error
	for _, name := range names {
		if !IsVersionRange(d[name]) {
			continue
		}
		if _, err := semver.NewConstraint(d[name]); err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid version range %q: %w", name, d[name], err))
		}
	}
	return errors.Join(errs...)
}

// IsVersionRange reports whether v is written as a semver range rather than
// a dist-tag, alias, path or URL.
func IsVersionRange(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, ":/#@") {
		return false
	}
	switch c := v[0]; {
	case c >= '0' && c <= '9', strings.IndexByte("^~<>=*", c) >= 0:
		return true
	case c == 'x' || c == 'X':
		return len(v) == 1 || v[1] == '.' || v[1] == ' '
	case c == 'v' || c == 'V':
		return len(v) > 1 && v[1] >= '0' && v[1] <= '9'
	default:
		return false
	}
}

// Names returns the package names in sorted order.
func (d Dependencies) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MergeInto copies d over existing; on key collision d wins.
func (d Dependencies) MergeInto(existing map[string]string) map[string]string {
	merged := make(map[string]string, len(existing)+len(d))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range d {
		merged[k] = v
	}
	return merged
}

// UpdateNodeDependencies merges deps into the devDependencies of the
// package.json at path. Other top-level keys keep their order and content;
// the devDependencies keys are sorted. A missing package.json is left alone
// and reported as (false, nil).
func UpdateNodeDependencies(path string, deps Dependencies) (bool, error) {
	if err := deps.Validate(); err != nil {
		return false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	obj, err := parseObject(data)
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", path, err)
	}

	existing := map[string]string{}
	if raw, ok := obj.get(DevDependenciesKey); ok && string(raw) != "null" {
		if err = json.Unmarshal(raw, &existing); err != nil {
			return false, fmt.Errorf("parsing %s in %s: %w", DevDependenciesKey, path, err)
		}
	}

	// encoding/json writes map keys in sorted order.
	section, err := marshal(deps.MergeInto(existing))
	if err != nil {
		return false, err
	}
	obj = obj.set(DevDependenciesKey, section)

	out, err := obj.encode()
	if err != nil {
		return false, fmt.Errorf("encoding %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if err = os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
