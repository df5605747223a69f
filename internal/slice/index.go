package slice

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"avatarforge/internal/errs"
	"avatarforge/internal/geom"
	"avatarforge/internal/logging"
)

// indexDocument is the hand-off format written by the external source
// decoder: a slices.json next to a directory of per-slice PNGs.
type indexDocument struct {
	Slices []indexEntry `json:"slices"`
}

type indexEntry struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	PSDPath string    `json:"psdPath"`
	Bounds  geom.Rect `json:"bounds"`
	Visible *bool     `json:"visible"`
	File    string    `json:"file"`
}

// LoadIndex reads dir/slices.json and the PNG files it references into a
// fresh store. Entries with unreadable pixel data are skipped with a
// warning; a missing or malformed index is an input error.
func LoadIndex(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	indexPath := filepath.Join(dir, "slices.json")
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "slice", "load index", indexPath, err)
	}
	var doc indexDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrInput, "slice", "parse index", indexPath, err)
	}
	if len(doc.Slices) == 0 {
		return nil, errs.Wrap(errs.ErrInput, "slice", "parse index", "no slices listed", nil)
	}

	store := NewStore()
	for _, entry := range doc.Slices {
		if entry.Name == "" {
			logger.Warn("slice entry missing name, skipped", logging.Args(logging.String("file", entry.File))...)
			continue
		}
		img, err := readPNG(filepath.Join(dir, entry.File))
		if err != nil {
			logger.Warn("slice image unreadable, skipped",
				logging.Args(logging.Slice(entry.Name), logging.String("file", entry.File), logging.Error(err))...)
			continue
		}
		bounds := entry.Bounds
		if bounds.Empty() {
			size := img.Bounds().Size()
			bounds = geom.Rect{W: size.X, H: size.Y}
		}
		visible := true
		if entry.Visible != nil {
			visible = *entry.Visible
		}
		s := &Slice{
			ID:         ID(entry.ID),
			Name:       entry.Name,
			SourcePath: entry.PSDPath,
			Bounds:     bounds,
			Image:      img,
			Visible:    visible,
		}
		if _, err := store.Add(s); err != nil {
			return nil, errs.Wrap(errs.ErrInput, "slice", "load index", entry.Name, err)
		}
	}
	if store.Len() == 0 {
		return nil, errs.Wrap(errs.ErrInput, "slice", "load index", "no readable slices", nil)
	}
	logger.Info("slice index loaded",
		logging.Args(logging.String("dir", dir), logging.Int("slices", store.Len()))...)
	return store, nil
}

func readPNG(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return img, nil
}
