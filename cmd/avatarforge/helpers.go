package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"avatarforge/internal/avatar"
	"avatarforge/internal/errs"
	"avatarforge/internal/geom"
)

const mappingFilename = "mapping.json"

func mappingPath(dir string) string {
	return filepath.Join(dir, mappingFilename)
}

// readMapping loads the slot mapping document a previous `map` run wrote
// next to the slice index.
func readMapping(dir string) (*avatar.Avatar, error) {
	path := mappingPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "cli", "read mapping",
			path+" (run `avatarforge map` first)", err)
	}
	var doc avatar.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrInput, "cli", "parse mapping", path, err)
	}
	return avatar.FromDocument(doc)
}

func writeMapping(dir string, av *avatar.Avatar) error {
	payload, err := av.MarshalDocument()
	if err != nil {
		return errs.Wrap(errs.ErrIO, "cli", "marshal mapping", "", err)
	}
	path := mappingPath(dir)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return errs.Wrap(errs.ErrIO, "cli", "write mapping", path, err)
	}
	return nil
}

// parseAnchor parses a "name=x,y" flag value.
func parseAnchor(value string) (string, geom.Point, error) {
	name, coords, ok := strings.Cut(value, "=")
	if !ok {
		return "", geom.Point{}, fmt.Errorf("anchor %q: want name=x,y", value)
	}
	var point geom.Point
	if _, err := fmt.Sscanf(coords, "%f,%f", &point.X, &point.Y); err != nil {
		return "", geom.Point{}, fmt.Errorf("anchor %q: want name=x,y", value)
	}
	return strings.TrimSpace(name), point, nil
}

// parseItemSpec parses a "type:sku=slotA,slotB" flag value.
func parseItemSpec(value string) (itemType, sku string, slots []string, err error) {
	head, tail, ok := strings.Cut(value, "=")
	if !ok {
		return "", "", nil, fmt.Errorf("item %q: want type:sku=slot,slot", value)
	}
	itemType, sku, ok = strings.Cut(head, ":")
	if !ok || itemType == "" || sku == "" {
		return "", "", nil, fmt.Errorf("item %q: want type:sku=slot,slot", value)
	}
	for _, slot := range strings.Split(tail, ",") {
		slot = strings.TrimSpace(slot)
		if slot != "" {
			slots = append(slots, slot)
		}
	}
	if len(slots) == 0 {
		return "", "", nil, fmt.Errorf("item %q: no slots listed", value)
	}
	return itemType, sku, slots, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
