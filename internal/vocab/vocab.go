package vocab

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_palette.yaml
var defaultPaletteYAML []byte

// GroupSpec describes one top-level slot group. Exactly one of the list
// fields is normally populated; Open groups accept any trailing segment.
type GroupSpec struct {
	Parts   []string `yaml:"parts,omitempty"`
	States  []string `yaml:"states,omitempty"`
	Shapes  []string `yaml:"shapes,omitempty"`
	Visemes []string `yaml:"visemes,omitempty"`
	Layers  []string `yaml:"layers,omitempty"`
	Open    bool     `yaml:"open,omitempty"`
}

// Palette is the full slot vocabulary, group name to spec.
type Palette struct {
	Groups map[string]GroupSpec `yaml:"groups"`
}

// Default returns the embedded palette.
func Default() Palette {
	palette, err := parse(defaultPaletteYAML)
	if err != nil {
		// The embedded palette is part of the build; a parse failure is a
		// programming error, not a runtime condition.
		panic(fmt.Sprintf("vocab: embedded palette invalid: %v", err))
	}
	return palette
}

// Load reads a palette from a YAML file.
func Load(path string) (Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, fmt.Errorf("read palette %s: %w", path, err)
	}
	palette, err := parse(data)
	if err != nil {
		return Palette{}, fmt.Errorf("parse palette %s: %w", path, err)
	}
	return palette, nil
}

func parse(data []byte) (Palette, error) {
	var palette Palette
	if err := yaml.Unmarshal(data, &palette); err != nil {
		return Palette{}, err
	}
	if len(palette.Groups) == 0 {
		return Palette{}, fmt.Errorf("palette has no groups")
	}
	return palette, nil
}

// SlotPaths enumerates every canonical slot path the palette admits,
// sorted. Open groups contribute nothing here since their membership is
// unbounded.
func (p Palette) SlotPaths() []string {
	var paths []string
	for group, spec := range p.Groups {
		paths = append(paths, spec.enumerate(group)...)
	}
	sort.Strings(paths)
	return paths
}

func (s GroupSpec) enumerate(group string) []string {
	var paths []string
	switch {
	case len(s.Visemes) > 0:
		for _, viseme := range s.Visemes {
			paths = append(paths, group+"/viseme/"+viseme)
		}
	case len(s.Parts) > 0 && len(s.States) > 0:
		for _, part := range s.Parts {
			for _, state := range s.States {
				paths = append(paths, group+"/"+part+"/state/"+state)
			}
		}
	case len(s.Parts) > 0 && len(s.Shapes) > 0:
		for _, part := range s.Parts {
			for _, shape := range s.Shapes {
				paths = append(paths, group+"/"+part+"/shape/"+shape)
			}
		}
	case len(s.Parts) > 0:
		for _, part := range s.Parts {
			paths = append(paths, group+"/"+part)
		}
	case len(s.Layers) > 0:
		for _, layer := range s.Layers {
			paths = append(paths, group+"/"+layer)
		}
	}
	return paths
}

// Contains reports whether slot is a valid path under the palette. Open
// groups accept any single trailing segment.
func (p Palette) Contains(slot string) bool {
	group, rest, ok := strings.Cut(slot, "/")
	if !ok || rest == "" {
		return false
	}
	spec, ok := p.Groups[group]
	if !ok {
		return false
	}
	if spec.Open {
		return !strings.Contains(rest, "/") && rest != ""
	}
	for _, path := range spec.enumerate(group) {
		if path == slot {
			return true
		}
	}
	return false
}

// GroupNames returns the palette's group names, sorted.
func (p Palette) GroupNames() []string {
	names := make([]string, 0, len(p.Groups))
	for name := range p.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EssentialSlots returns the slots a rigged avatar cannot function
// without: open and closed states for every eye part, plus the neutral
// mouth viseme.
func (p Palette) EssentialSlots() []string {
	var essential []string
	for group, spec := range p.Groups {
		if len(spec.States) == 0 {
			continue
		}
		if !hasAll(spec.States, "open", "closed") {
			continue
		}
		for _, part := range spec.Parts {
			if !strings.HasPrefix(strings.ToLower(part), "eye") {
				continue
			}
			essential = append(essential,
				group+"/"+part+"/state/open",
				group+"/"+part+"/state/closed")
		}
	}
	for group, spec := range p.Groups {
		for _, viseme := range spec.Visemes {
			if viseme == "REST" {
				essential = append(essential, group+"/viseme/REST")
			}
		}
	}
	sort.Strings(essential)
	return essential
}

// RecommendedSlots returns slots a complete avatar should carry but can
// ship without: the non-neutral mouth visemes.
func (p Palette) RecommendedSlots() []string {
	var recommended []string
	for group, spec := range p.Groups {
		for _, viseme := range spec.Visemes {
			if viseme == "REST" || viseme == "SIL" {
				continue
			}
			recommended = append(recommended, group+"/viseme/"+viseme)
		}
	}
	sort.Strings(recommended)
	return recommended
}

func hasAll(haystack []string, needles ...string) bool {
	for _, needle := range needles {
		found := false
		for _, value := range haystack {
			if value == needle {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
