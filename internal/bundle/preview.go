package bundle

import (
	"log/slog"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"avatarforge/internal/avatar"
	"avatarforge/internal/errs"
	"avatarforge/internal/geom"
	"avatarforge/internal/logging"
	"avatarforge/internal/slice"
)

const previewLabelBand = 24

// loadFace loads the preview label typeface from a TTF file, falling
// back to the built-in bitmap face when the path is unset or unusable.
func loadFace(fontPath string, size float64, logger *slog.Logger) font.Face {
	if fontPath == "" {
		return basicfont.Face7x13
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		logger.Warn("preview font unreadable, using built-in face",
			logging.Args(logging.String("font", fontPath), logging.Error(err))...)
		return basicfont.Face7x13
	}
	parsed, err := truetype.Parse(data)
	if err != nil {
		logger.Warn("preview font invalid, using built-in face",
			logging.Args(logging.String("font", fontPath), logging.Error(err))...)
		return basicfont.Face7x13
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: size})
}

// renderPreview composites the given slots back to front into a
// size by size canvas, scaled to fit, with label drawn underneath.
// Invisible mappings are skipped.
func renderPreview(av *avatar.Avatar, store *slice.Store, slots []string, label string, size int, face font.Face) (*gg.Context, error) {
	ordered := av.DrawOrder().SortSlotPaths(slots)

	var content geom.Rect
	for _, slot := range ordered {
		m, ok := av.Mapping(slot)
		if !ok || !m.Visible {
			continue
		}
		content = content.Union(m.Bounds)
	}

	dc := gg.NewContext(size, size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if !content.Empty() {
		drawable := float64(size - previewLabelBand)
		scale := drawable / float64(content.W)
		if s := drawable / float64(content.H); s < scale {
			scale = s
		}
		offsetX := (float64(size) - float64(content.W)*scale) / 2
		offsetY := (drawable - float64(content.H)*scale) / 2

		for _, slot := range ordered {
			m, ok := av.Mapping(slot)
			if !ok || !m.Visible {
				continue
			}
			s, err := av.ResolveSlice(store, slot)
			if err != nil {
				return nil, errs.Wrap(errs.ErrConsistency, "bundle", "render preview", slot, err)
			}
			if s.Image == nil {
				continue
			}
			dc.Push()
			dc.Translate(
				offsetX+float64(m.Bounds.X-content.X)*scale,
				offsetY+float64(m.Bounds.Y-content.Y)*scale)
			dc.Scale(scale, scale)
			dc.DrawImage(s.Image, 0, 0)
			dc.Pop()
		}
	}

	if label != "" {
		dc.SetFontFace(face)
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.DrawStringAnchored(label, float64(size)/2, float64(size)-previewLabelBand/2, 0.5, 0.5)
	}
	return dc, nil
}
