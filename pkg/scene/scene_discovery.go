package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/mohamed3ma/helios/pkg/core"
	"github.com/mohamed3ma/helios/pkg/loaders"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string     `json:"id"`          // Unique identifier
	Name        string     `json:"name"`        // Scene name
	DisplayName string     `json:"displayName"` // Display name
	Description string     `json:"description"` // Optional description
	Group       string     `json:"group"`       // Grouping category
	Type        string     `json:"type"`        // "builtin" or "file"
	FilePath    string     `json:"filePath"`    // Path to the definition file (file type only)
	Variant     string     `json:"variant"`     // Variant name (optional)
	Source      *core.AABB `json:"-"`           // Source region declared in the file header
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents every known scene, grouped
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const filePrefix = "file:"

// ListDefinitionFiles scans dir for .toml definition files. A missing
// directory yields an empty list.
func ListDefinitionFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan scenes directory")
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		info, err := ParseMetadata(filePath)
		if err != nil {
			// Keep the fallback values and move on
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ParseMetadata extracts metadata from the header comments of a definition
// file. Recognised keys are Scene, Variant, Description, Group and Source;
// Source holds the six bounds "xmin ymin zmin xmax ymax zmax".
func ParseMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:          filePrefix + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Definition Files",
		Type:        "file",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}

		key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "#")), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Scene":
			info.Name = value
		case "Variant":
			info.Variant = value
		case "Description":
			info.Description = value
		case "Group":
			info.Group = value
		case "Source":
			box, err := parseBox(value)
			if err != nil {
				return info, errors.Wrapf(err, "%s: bad source region", filePath)
			}
			info.Source = &box
		}
	}

	if info.Variant != "" {
		info.DisplayName = fmt.Sprintf("%s - %s", info.Name, info.Variant)
	} else {
		info.DisplayName = info.Name
	}
	return info, scanner.Err()
}

func parseBox(value string) (core.AABB, error) {
	fields := strings.Fields(value)
	if len(fields) != 6 {
		return core.AABB{}, errors.Errorf("expected 6 values, got %d", len(fields))
	}
	v := make([]float64, 6)
	for i, field := range fields {
		f, err := cast.ToFloat64E(field)
		if err != nil {
			return core.AABB{}, err
		}
		v[i] = f
	}
	box := core.NewAABB(core.NewVec3(v[0], v[1], v[2]), core.NewVec3(v[3], v[4], v[5]))
	if !box.IsValid() {
		return core.AABB{}, errors.New("minimum exceeds maximum")
	}
	return box, nil
}

// ListAllScenes returns the built-in scenes and the definition files of
// dir, grouped by category with the built-in group first
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	files, err := ListDefinitionFiles(dir)
	if err != nil {
		return response, errors.Wrap(err, "failed to list definition files")
	}

	groupMap := lo.GroupBy(append(BuiltinScenes(), files...), func(info SceneInfo) string {
		return info.Group
	})

	if group, ok := groupMap[builtinGroup]; ok {
		response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: group})
	}

	groupNames := lo.Without(lo.Keys(groupMap), builtinGroup)
	sort.Strings(groupNames)
	for _, name := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return response, nil
}

// LoadNamed is Load restricted to built-in ids and "file:<name>" references
// naming a file directly inside dir. Paths are rejected.
func LoadNamed(ref, dir string) (*Scene, error) {
	if s, ok := Builtin(ref); ok {
		return s, nil
	}
	if !strings.HasPrefix(ref, filePrefix) {
		return nil, errors.Errorf("unknown scene %q", ref)
	}
	name := strings.TrimPrefix(ref, filePrefix)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`+"\x00") {
		return nil, errors.Errorf("invalid scene file name %q", name)
	}
	return Load(ref, dir)
}

// Load resolves a scene reference: a built-in id, "file:<name>" for a file
// of dir, or a path to a .toml definition file
func Load(ref, dir string) (*Scene, error) {
	if s, ok := Builtin(ref); ok {
		return s, nil
	}

	path := ref
	if strings.HasPrefix(ref, filePrefix) {
		path = filepath.Join(dir, strings.TrimPrefix(ref, filePrefix)+".toml")
	} else if !strings.HasSuffix(strings.ToLower(ref), ".toml") {
		return nil, errors.Errorf("unknown scene %q", ref)
	}

	info, err := ParseMetadata(path)
	if err != nil {
		return nil, err
	}
	defs, err := loaders.LoadDefinitions(path)
	if err != nil {
		return nil, err
	}

	s := &Scene{Info: info, Definitions: defs, Source: DefaultSource}
	if info.Source != nil {
		s.Source = *info.Source
	}
	return s, nil
}

// titleCase converts a filename-style string to title case
// e.g., "pin-lattice" -> "Pin Lattice"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}
