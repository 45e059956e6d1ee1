package diag

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed shipped.toml
var shippedManifest string

// ShippedRule is one identifier as it was first released.
type ShippedRule struct {
	ID       string `toml:"id"`
	Family   string `toml:"family"`
	Severity string `toml:"severity"`
}

// Release lists the identifiers first shipped in Version.
type Release struct {
	Version string        `toml:"version"`
	Rules   []ShippedRule `toml:"rules"`
}

// Migration records a severity change of an already shipped identifier.
type Migration struct {
	ID      string `toml:"id"`
	Release string `toml:"release"`
	From    string `toml:"from"`
	To      string `toml:"to"`
}

// Manifest is the decoded shipped.toml.
type Manifest struct {
	Releases   []Release   `toml:"release"`
	Migrations []Migration `toml:"migration"`
}

// LoadManifest decodes the embedded shipped manifest.
func LoadManifest() (*Manifest, error) {
	return ParseManifest(shippedManifest)
}

// ParseManifest decodes a manifest document; unknown keys are rejected.
func ParseManifest(data string) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(data, &m)
	if err != nil {
		return nil, fmt.Errorf("decode shipped manifest: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("shipped manifest: unknown keys %s", strings.Join(keys, ", "))
	}
	return &m, nil
}

// EffectiveSeverity returns the severity of id after applying migrations in
// manifest order, and the release it first shipped in.
func (m *Manifest) EffectiveSeverity(id string) (sev, since string, ok bool) {
	for _, rel := range m.Releases {
		for _, r := range rel.Rules {
			if r.ID == id {
				sev, since, ok = r.Severity, rel.Version, true
			}
		}
	}
	if !ok {
		return "", "", false
	}
	for _, mig := range m.Migrations {
		if mig.ID == id {
			sev = mig.To
		}
	}
	return sev, since, true
}

// Verify checks the registry against the manifest: every shipped identifier is
// still registered, none is shipped twice, migrations chain correctly, and
// every registered descriptor matches its shipped severity and family.
func (m *Manifest) Verify(descs []Descriptor) error {
	var errs []error
	registered := make(map[string]Descriptor, len(descs))
	for _, d := range descs {
		if _, dup := registered[d.ID()]; dup {
			errs = append(errs, fmt.Errorf("%s: registered twice", d.ID()))
		}
		registered[d.ID()] = d
	}

	shipped := make(map[string]ShippedRule)
	for _, rel := range m.Releases {
		for _, r := range rel.Rules {
			if _, dup := shipped[r.ID]; dup {
				errs = append(errs, fmt.Errorf("%s: shipped again in %s (identifiers are never reused)", r.ID, rel.Version))
				continue
			}
			shipped[r.ID] = r
			d, ok := registered[r.ID]
			if !ok {
				errs = append(errs, fmt.Errorf("%s: shipped in %s but missing from the registry", r.ID, rel.Version))
				continue
			}
			if string(d.Family) != r.Family {
				errs = append(errs, fmt.Errorf("%s: family %q differs from shipped %q", r.ID, d.Family, r.Family))
			}
			if d.Since != rel.Version {
				errs = append(errs, fmt.Errorf("%s: registry says since %s, manifest says %s", r.ID, d.Since, rel.Version))
			}
		}
	}

	current := make(map[string]string, len(shipped))
	for id, r := range shipped {
		current[id] = r.Severity
	}
	for _, mig := range m.Migrations {
		sev, ok := current[mig.ID]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: migration for an identifier that never shipped", mig.ID))
			continue
		}
		if sev != mig.From {
			errs = append(errs, fmt.Errorf("%s: migration from %q but severity was %q", mig.ID, mig.From, sev))
		}
		current[mig.ID] = mig.To
	}

	ids := make([]string, 0, len(registered))
	for id := range registered {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		d := registered[id]
		sev, ok := current[id]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: not listed in any release", id))
			continue
		}
		if sev != d.Severity.String() {
			errs = append(errs, fmt.Errorf("%s: severity %s without a migration from %s", id, d.Severity, sev))
		}
	}
	return errors.Join(errs...)
}
