package collection

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/scottpeterman/wirlwind/internal/errs"
	"github.com/scottpeterman/wirlwind/internal/statestore"
	"github.com/scottpeterman/wirlwind/internal/vendorid"
)

type rawParser struct {
	Type      string            `yaml:"type"`
	Templates []string          `yaml:"templates"`
	Pattern   string            `yaml:"pattern"`
	Flags     []string          `yaml:"flags"`
	Groups    map[string]string `yaml:"groups"`
}

type rawSeries struct {
	Name         string `yaml:"name"`
	PerInterface bool   `yaml:"per_interface"`
	Capacity     int    `yaml:"capacity"`
}

type rawDefinition struct {
	Command   string            `yaml:"command"`
	Interval  int               `yaml:"interval"`
	Parsers   []rawParser       `yaml:"parsers"`
	Normalize map[string]string `yaml:"normalize"`
	Schema    map[string]string `yaml:"schema"`
	Series    []rawSeries       `yaml:"series"`
}

// Registry loads collection definitions from a directory tree rooted at
// root, laid out as root/<collection_name>/<vendor_id>.yaml plus an
// optional root/<collection_name>/_schema.yaml (spec.md 6).
type Registry struct {
	root string
}

// New creates a registry rooted at dir.
func New(dir string) *Registry {
	return &Registry{root: dir}
}

// Names returns every collection name present under the registry root, in
// lexicographic order. This order is also the "definition-file order" the
// poll engine fires collections in within a cycle (spec.md 5): the source
// format has no other notion of ordering once loaded from a directory
// tree, so sorted names is the most reproducible stand-in.
func (r *Registry) Names() ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("%w: reading collections root %q: %v", errs.Config, r.root, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// HasSchema reports whether a collection directory ships a _schema.yaml,
// used by --preflight-only to emit its "missing optional schema" warning
// (spec.md 6) without treating it as fatal.
func (r *Registry) HasSchema(name string) bool {
	_, err := os.Stat(filepath.Join(r.root, name, "_schema.yaml"))
	return err == nil
}

// Load resolves and decodes the definition for one collection/vendor pair,
// applying the vendor-fallback rule (spec.md 3) at the file-lookup level.
func (r *Registry) Load(name, vendor string) (*Definition, error) {
	dir := filepath.Join(r.root, name)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: unknown collection %q", errs.Config, name)
	}

	resolvedVendor, path, ok := vendorid.Resolve(vendor, func(v string) (string, bool) {
		p := filepath.Join(dir, v+".yaml")
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
		return "", false
	})
	if !ok {
		return nil, fmt.Errorf("%w: %w: no collection file for %q under %s", errs.Config, errNoVendorFile, vendor, dir)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", errs.Config, path, err)
	}

	var generic interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", errs.Config, path, err)
	}
	if err := validateStructure(generic); err != nil {
		return nil, fmt.Errorf("collection %q vendor %q: %w", name, resolvedVendor, err)
	}

	var rd rawDefinition
	if err := yaml.Unmarshal(raw, &rd); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", errs.Config, path, err)
	}

	normalize, err := invertNormalize(rd.Normalize)
	if err != nil {
		return nil, fmt.Errorf("collection %q vendor %q: %w", name, resolvedVendor, err)
	}

	parsers, err := convertParsers(rd.Parsers)
	if err != nil {
		return nil, fmt.Errorf("collection %q vendor %q: %w", name, resolvedVendor, err)
	}

	schemaFields, err := r.loadSchema(dir, rd.Schema)
	if err != nil {
		return nil, fmt.Errorf("collection %q vendor %q: %w", name, resolvedVendor, err)
	}

	series := make([]statestore.SeriesSpec, 0, len(rd.Series))
	for _, s := range rd.Series {
		series = append(series, statestore.SeriesSpec{Name: s.Name, PerInterface: s.PerInterface, Capacity: s.Capacity})
	}

	return &Definition{
		Name:            name,
		Vendor:          resolvedVendor,
		Command:         rd.Command,
		IntervalSeconds: rd.Interval,
		Parsers:         parsers,
		Normalize:       normalize,
		Schema:          schemaFields,
		Series:          series,
	}, nil
}

// LoadAll loads every collection this vendor supports, skipping (not
// failing on) collections with no file resolvable for vendor -- a vendor
// simply not offering a given piece of telemetry is not a config error.
func (r *Registry) LoadAll(vendor string) ([]*Definition, error) {
	names, err := r.Names()
	if err != nil {
		return nil, err
	}

	defs := make([]*Definition, 0, len(names))
	for _, name := range names {
		def, err := r.Load(name, vendor)
		if err != nil {
			if isUnsupportedVendor(err) {
				continue
			}
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

var errNoVendorFile = errors.New("no collection file for vendor")

func isUnsupportedVendor(err error) bool {
	return errors.Is(err, errNoVendorFile)
}

// invertNormalize turns the on-disk canonical->source map into the
// source->canonical map the normalize stage actually applies (spec.md 9),
// rejecting duplicate sources as a config error.
func invertNormalize(canonicalToSource map[string]string) (map[string]string, error) {
	if len(canonicalToSource) == 0 {
		return nil, nil
	}
	inverted := make(map[string]string, len(canonicalToSource))
	for canonical, source := range canonicalToSource {
		if existing, seen := inverted[source]; seen {
			return nil, fmt.Errorf("%w: normalize source %q maps to both %q and %q", errs.Config, source, existing, canonical)
		}
		inverted[source] = canonical
	}
	return inverted, nil
}

func convertParsers(raw []rawParser) ([]ParserSpec, error) {
	specs := make([]ParserSpec, 0, len(raw))
	for _, p := range raw {
		kind := ParserKind(p.Type)
		switch kind {
		case ParserTextFSM, ParserTTP:
			if len(p.Templates) == 0 {
				return nil, fmt.Errorf("%w: parser type %q requires at least one template", errs.Config, p.Type)
			}
		case ParserRegex:
			if p.Pattern == "" {
				return nil, fmt.Errorf("%w: regex parser requires a pattern", errs.Config)
			}
		default:
			return nil, fmt.Errorf("%w: unknown parser type %q", errs.Config, p.Type)
		}
		specs = append(specs, ParserSpec{
			Kind:      kind,
			Templates: p.Templates,
			Pattern:   p.Pattern,
			Flags:     p.Flags,
			Groups:    p.Groups,
		})
	}
	return specs, nil
}

func (r *Registry) loadSchema(dir string, inline map[string]string) (map[string]FieldType, error) {
	merged := make(map[string]string, len(inline))
	for k, v := range inline {
		merged[k] = v
	}

	sidecar := filepath.Join(dir, "_schema.yaml")
	if data, err := os.ReadFile(sidecar); err == nil {
		var fromFile map[string]string
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", errs.Config, sidecar, err)
		}
		for k, v := range fromFile {
			merged[k] = v
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: reading %s: %v", errs.Config, sidecar, err)
	}

	if len(merged) == 0 {
		return nil, nil
	}

	out := make(map[string]FieldType, len(merged))
	for field, typ := range merged {
		ft := FieldType(typ)
		switch ft {
		case FieldInt, FieldFloat, FieldString, FieldBool:
			out[field] = ft
		default:
			return nil, fmt.Errorf("%w: field %q declares unknown schema type %q", errs.Config, field, typ)
		}
	}
	return out, nil
}
