package loaders

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/geometry"
)

// rawDefinitions mirrors a geometry definition file. Ids, coefficient lists
// and surface lists are decoded loosely so that both `id = 1` and
// `id = "1"`, or `surfaces = "-1 2"` and `surfaces = [-1, 2]`, are accepted.
type rawDefinitions struct {
	Surfaces  []rawSurface  `toml:"surface"`
	Cells     []rawCell     `toml:"cell"`
	Universes []rawUniverse `toml:"universe"`
}

type rawSurface struct {
	ID           interface{} `toml:"id"`
	Type         string      `toml:"type"`
	Coefficients interface{} `toml:"coefficients"`
	Boundary     string      `toml:"boundary"`
}

type rawCell struct {
	ID          interface{} `toml:"id"`
	Surfaces    interface{} `toml:"surfaces"`
	Fill        interface{} `toml:"fill"`
	Translation interface{} `toml:"translation"`
	Universe    interface{} `toml:"universe"`
}

type rawUniverse struct {
	ID    interface{} `toml:"id"`
	Cells interface{} `toml:"cells"`
}

// ParseDefinitions reads geometry definitions in TOML form:
//
//	[[surface]]
//	id = 1
//	type = "so"
//	coefficients = [10.0]
//	boundary = "vacuum"
//
//	[[cell]]
//	id = "inside"
//	surfaces = "-1"
//
// Cells may name a fill universe, a fill translation and the universe they
// belong to; [[universe]] tables list cells explicitly.
func ParseDefinitions(reader io.Reader) (geometry.Definitions, error) {
	var raw rawDefinitions
	md, err := toml.NewDecoder(reader).Decode(&raw)
	if err != nil {
		return geometry.Definitions{}, errors.Wrap(err, "failed to decode definitions")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return geometry.Definitions{}, errors.Errorf("unknown keys in definitions: %s", strings.Join(keys, ", "))
	}

	var defs geometry.Definitions
	for i, s := range raw.Surfaces {
		def, err := convertSurface(s)
		if err != nil {
			return geometry.Definitions{}, errors.Wrapf(err, "surface #%d", i+1)
		}
		defs.Surfaces = append(defs.Surfaces, def)
	}
	for i, c := range raw.Cells {
		def, err := convertCell(c)
		if err != nil {
			return geometry.Definitions{}, errors.Wrapf(err, "cell #%d", i+1)
		}
		defs.Cells = append(defs.Cells, def)
	}
	for i, u := range raw.Universes {
		def, err := convertUniverse(u)
		if err != nil {
			return geometry.Definitions{}, errors.Wrapf(err, "universe #%d", i+1)
		}
		defs.Universes = append(defs.Universes, def)
	}
	return defs, nil
}

// LoadDefinitions loads and parses a geometry definition file
func LoadDefinitions(filename string) (geometry.Definitions, error) {
	if err := validateFilePath(filename); err != nil {
		return geometry.Definitions{}, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return geometry.Definitions{}, errors.Wrap(err, "failed to open definitions file")
	}
	defer file.Close()

	defs, err := ParseDefinitions(file)
	if err != nil {
		return geometry.Definitions{}, errors.Wrap(err, filename)
	}
	return defs, nil
}

// validateFilePath rejects paths that cannot name a definition file
func validateFilePath(filename string) error {
	if filename == "" {
		return errors.New("filename cannot be empty")
	}
	if strings.Contains(filename, "\x00") {
		return errors.New("invalid file path: null bytes not allowed")
	}
	cleanPath := filepath.Clean(filename)
	if !strings.HasSuffix(strings.ToLower(cleanPath), ".toml") {
		return errors.New("invalid file type: only .toml files are allowed")
	}
	if len(cleanPath) > 512 {
		return errors.New("file path too long: maximum 512 characters allowed")
	}
	return nil
}

func convertSurface(s rawSurface) (geometry.SurfaceDefinition, error) {
	id, err := toID(s.ID)
	if err != nil {
		return geometry.SurfaceDefinition{}, err
	}
	if s.Type == "" {
		return geometry.SurfaceDefinition{}, errors.Errorf("surface %s has no type", id)
	}
	coeffs, err := toFloats(s.Coefficients)
	if err != nil {
		return geometry.SurfaceDefinition{}, errors.Wrapf(err, "surface %s coefficients", id)
	}
	boundary, err := geometry.ParseBoundary(s.Boundary)
	if err != nil {
		return geometry.SurfaceDefinition{}, errors.Wrapf(err, "surface %s", id)
	}
	return geometry.SurfaceDefinition{
		ID:           geometry.SurfaceID(id),
		Family:       geometry.Family(s.Type),
		Coefficients: coeffs,
		Boundary:     boundary,
	}, nil
}

func convertCell(c rawCell) (geometry.CellDefinition, error) {
	id, err := toID(c.ID)
	if err != nil {
		return geometry.CellDefinition{}, err
	}
	surfaces, err := toSurfaceSenses(c.Surfaces)
	if err != nil {
		return geometry.CellDefinition{}, errors.Wrapf(err, "cell %s surfaces", id)
	}
	def := geometry.CellDefinition{
		ID:       geometry.CellID(id),
		Surfaces: surfaces,
	}
	if c.Fill != nil {
		fill, err := toID(c.Fill)
		if err != nil {
			return geometry.CellDefinition{}, errors.Wrapf(err, "cell %s fill", id)
		}
		def.Fill = geometry.UniverseID(fill)
	}
	if c.Universe != nil {
		u, err := toID(c.Universe)
		if err != nil {
			return geometry.CellDefinition{}, errors.Wrapf(err, "cell %s universe", id)
		}
		def.Universe = geometry.UniverseID(u)
	}
	if c.Translation != nil {
		xyz, err := toFloats(c.Translation)
		if err != nil {
			return geometry.CellDefinition{}, errors.Wrapf(err, "cell %s translation", id)
		}
		if len(xyz) != 3 {
			return geometry.CellDefinition{}, errors.Errorf("cell %s translation needs 3 values, got %d", id, len(xyz))
		}
		def.Translation = r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	}
	return def, nil
}

func convertUniverse(u rawUniverse) (geometry.UniverseDefinition, error) {
	id, err := toID(u.ID)
	if err != nil {
		return geometry.UniverseDefinition{}, err
	}
	items, err := toList(u.Cells)
	if err != nil {
		return geometry.UniverseDefinition{}, errors.Wrapf(err, "universe %s cells", id)
	}
	def := geometry.UniverseDefinition{ID: geometry.UniverseID(id)}
	for _, item := range items {
		c, err := toID(item)
		if err != nil {
			return geometry.UniverseDefinition{}, errors.Wrapf(err, "universe %s cells", id)
		}
		def.Cells = append(def.Cells, geometry.CellID(c))
	}
	return def, nil
}

// toID accepts integer or string ids
func toID(value interface{}) (string, error) {
	if value == nil {
		return "", errors.New("missing id")
	}
	if f, ok := value.(float64); ok && f != float64(int64(f)) {
		return "", errors.Errorf("id %v is not an integer", f)
	}
	id, err := cast.ToStringE(value)
	if err != nil {
		return "", errors.Wrap(err, "bad id")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("empty id")
	}
	return id, nil
}

// toList splits a whitespace separated string, wraps a single number or
// returns the items of an array
func toList(value interface{}) ([]interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return lo.ToAnySlice(strings.Fields(v)), nil
	case int64, float64:
		return []interface{}{v}, nil
	}
	return cast.ToSliceE(value)
}

func toFloats(value interface{}) ([]float64, error) {
	items, err := toList(value)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, err := cast.ToFloat64E(item)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// toSurfaceSenses accepts "-1 2 +3" as well as [-1, 2, "+3"]
func toSurfaceSenses(value interface{}) ([]geometry.SurfaceSense, error) {
	items, err := toList(value)
	if err != nil {
		return nil, err
	}
	out := make([]geometry.SurfaceSense, len(items))
	for i, item := range items {
		// TOML has no negative integer zero, so -0 would silently read as +0
		if n, err := cast.ToFloat64E(item); err == nil && n == 0 {
			if _, isString := item.(string); !isString {
				return nil, errors.New(`surface 0 needs a quoted sense in lists, e.g. "-0" or "+0"`)
			}
		}
		token, err := cast.ToStringE(item)
		if err != nil {
			return nil, err
		}
		ss, err := geometry.ParseSurfaceSense(token)
		if err != nil {
			return nil, err
		}
		out[i] = ss
	}
	return out, nil
}
