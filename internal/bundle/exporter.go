package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"avatarforge/internal/automap"
	"avatarforge/internal/avatar"
	"avatarforge/internal/config"
	"avatarforge/internal/errs"
	"avatarforge/internal/geom"
	"avatarforge/internal/logging"
	"avatarforge/internal/manifest"
	"avatarforge/internal/schema"
	"avatarforge/internal/slice"
	"avatarforge/internal/vocab"
	"avatarforge/internal/wardrobe"
)

// Exporter serializes avatars into bundle archives under the settings of
// one configuration.
type Exporter struct {
	cfg     *config.Config
	logger  *slog.Logger
	palette vocab.Palette
}

// NewExporter returns an exporter. A nil logger discards output.
func NewExporter(cfg *config.Config, logger *slog.Logger, palette vocab.Palette) *Exporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Exporter{cfg: cfg, logger: logging.WithComponent(logger, "bundle"), palette: palette}
}

// Request carries everything one export serializes.
type Request struct {
	Avatar  *avatar.Avatar
	Slices  *slice.Store
	Items   []wardrobe.Item
	Rules   []automap.Rule
	Version string
}

// Summary reports what an export produced.
type Summary struct {
	Path         string
	SlotCount    int
	ItemCount    int
	AtlasSide    int
	AtlasOmitted []string
	Warnings     []schema.Finding
	Elapsed      time.Duration
}

// Export validates the avatar and, when it passes, writes the complete
// bundle archive. Validation errors abort before any byte reaches disk;
// write failures abort with no partial archive left at the final name.
func (e *Exporter) Export(ctx context.Context, req Request) (*Summary, error) {
	start := time.Now()
	av := req.Avatar
	if av == nil || req.Slices == nil {
		return nil, errs.Wrap(errs.ErrInput, "bundle", "export", "avatar and slice store are required", nil)
	}
	version := strings.TrimSpace(req.Version)
	if version == "" {
		version = "1.0.0"
	}

	doc := av.Document()
	findings := schema.ValidateAvatarDocument(doc)
	findings.Merge(schema.CheckCompleteness(av, e.palette))
	for _, item := range req.Items {
		findings.Merge(schema.ValidateItem(item))
	}
	if !findings.Valid() {
		for _, f := range findings.Errors {
			e.logger.Error("validation failed", logging.Args(logging.Slot(f.Slot), logging.String("code", f.Code), logging.String("detail", f.Message))...)
		}
		return nil, errs.Wrap(errs.ErrValidation, "bundle", "export",
			fmt.Sprintf("%d blocking findings, first: %s", len(findings.Errors), findings.Errors[0]), nil)
	}
	for _, f := range findings.Warnings {
		e.logger.Warn("validation warning", logging.Args(logging.Slot(f.Slot), logging.String("code", f.Code), logging.String("detail", f.Message))...)
	}

	lock := flock.New(e.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "bundle", "lock", e.cfg.LockPath(), err)
	}
	if !locked {
		return nil, errs.Wrap(errs.ErrIO, "bundle", "lock", "another export is in progress", nil)
	}
	defer func() { _ = lock.Unlock() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Resolve and encode every mapped slot up front. A missing or
	// unreadable slice aborts the whole export.
	canon, err := e.encodeSlots(av, req.Slices)
	if err != nil {
		return nil, err
	}

	summary := &Summary{SlotCount: len(canon), ItemCount: len(req.Items), Warnings: findings.Warnings}

	var atlasPNG []byte
	if e.cfg.Atlas.Enabled {
		atlasPNG, err = e.packIntoAtlas(av, req.Slices, &doc, summary)
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(e.cfg.Paths.OutputDir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrIO, "bundle", "ensure output dir", e.cfg.Paths.OutputDir, err)
	}
	tmp, err := os.CreateTemp(e.cfg.Paths.OutputDir, ".bundle-*.zip")
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "bundle", "create temp archive", "", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	m := manifest.New(av.Name, version, av.RigID)
	arch := newArchive(tmp, &m)
	writeErr := e.writeBundle(arch, av, req, doc, canon, atlasPNG, summary)
	if writeErr == nil {
		writeErr = arch.close()
	}
	if closeErr := tmp.Close(); writeErr == nil && closeErr != nil {
		writeErr = errs.Wrap(errs.ErrIO, "bundle", "close temp archive", tmpPath, closeErr)
	}
	if writeErr != nil {
		return nil, writeErr
	}

	finalPath := filepath.Join(e.cfg.Paths.OutputDir, bundleFilename(av.Name, version))
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return nil, errs.Wrap(errs.ErrIO, "bundle", "finalize archive", finalPath, err)
	}
	summary.Path = finalPath
	summary.Elapsed = time.Since(start)

	e.logger.Info("bundle exported", logging.Args(
		logging.String("path", finalPath),
		logging.Int("slots", summary.SlotCount),
		logging.Int("items", summary.ItemCount),
		logging.Int("warnings", len(summary.Warnings)),
		logging.Duration("elapsed", summary.Elapsed))...)
	return summary, nil
}

// writeBundle emits every archive entry except manifest.json, which goes
// last so it can hash everything before it.
func (e *Exporter) writeBundle(arch *archive, av *avatar.Avatar, req Request, doc avatar.Document, canon map[string][]byte, atlasPNG []byte, summary *Summary) error {
	docPayload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errs.Wrap(errs.ErrIO, "bundle", "marshal avatar.json", "", err)
	}
	if err := arch.writeFile("avatar.json", docPayload); err != nil {
		return err
	}

	if atlasPNG != nil {
		if err := arch.writeFile("atlas.png", atlasPNG); err != nil {
			return err
		}
	}

	for _, slot := range av.SlotPaths() {
		if err := arch.writeFile("slices/canon/"+slot+".png", canon[slot]); err != nil {
			return err
		}
	}

	if err := e.writeRawSlices(arch, req.Slices); err != nil {
		return err
	}
	if err := e.writeTracePaths(arch, av, req.Slices); err != nil {
		return err
	}

	rulesPayload, err := automap.MarshalRulesYAML(req.Rules)
	if err != nil {
		return errs.Wrap(errs.ErrIO, "bundle", "marshal rules", "", err)
	}
	if err := arch.writeFile("rules/PCS_RULES.yaml", rulesPayload); err != nil {
		return err
	}

	if err := e.writeItems(arch, req.Items, canon); err != nil {
		return err
	}
	for _, item := range req.Items {
		arch.manifest.RecordFitBox(item.Type+"/"+item.SKU, item.FitBox)
	}

	if e.cfg.Export.Previews {
		if err := e.writePreviews(arch, av, req); err != nil {
			return err
		}
	}
	if e.cfg.Export.Readme {
		if err := arch.writeFile("README.txt", []byte(readmeText(av, summary))); err != nil {
			return err
		}
	}

	return arch.writeManifest()
}

// encodeSlots renders every mapped slot's pixels to PNG.
func (e *Exporter) encodeSlots(av *avatar.Avatar, store *slice.Store) (map[string][]byte, error) {
	canon := make(map[string][]byte, len(av.SlotPaths()))
	for _, slot := range av.SlotPaths() {
		s, err := av.ResolveSlice(store, slot)
		if err != nil {
			return nil, err
		}
		if s.Image == nil {
			return nil, errs.Wrap(errs.ErrConsistency, "bundle", "encode slot",
				"slice "+string(s.ID)+" for slot "+slot+" has no pixels", nil)
		}
		payload, err := encodePNG(s.Image)
		if err != nil {
			return nil, errs.Wrap(errs.ErrIO, "bundle", "encode slot", slot, err)
		}
		canon[slot] = payload
	}
	return canon, nil
}

// packIntoAtlas packs the mapped slots, composites the atlas image, and
// rewrites the document's packed slice rects into atlas space. Slots
// that do not fit keep their document-space rects and loose files.
func (e *Exporter) packIntoAtlas(av *avatar.Avatar, store *slice.Store, doc *avatar.Document, summary *Summary) ([]byte, error) {
	sizes := make(map[string]geom.Rect, len(doc.Images.Slices))
	for slot, ref := range doc.Images.Slices {
		sizes[slot] = geom.Rect{W: ref.W, H: ref.H}
	}
	atlas := PackAtlas(sizes, e.cfg.Atlas.MaxDimension, e.cfg.Atlas.PaddingFactor)

	canvas := image.NewRGBA(image.Rect(0, 0, atlas.Side, atlas.Side))
	slots := make([]string, 0, len(atlas.Rects))
	for slot := range atlas.Rects {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	for _, slot := range slots {
		s, err := av.ResolveSlice(store, slot)
		if err != nil {
			return nil, err
		}
		blit(canvas, s.Image, atlas.Rects[slot])
		ref := doc.Images.Slices[slot]
		r := atlas.Rects[slot]
		doc.Images.Slices[slot] = avatar.SliceRef{X: r.X, Y: r.Y, W: r.W, H: r.H, ID: ref.ID}
	}
	doc.Images.Atlas = "atlas.png"

	for _, slot := range atlas.Omitted {
		e.logger.Warn("slot did not fit the atlas, kept as loose file", logging.Args(logging.Slot(slot))...)
	}
	summary.AtlasSide = atlas.Side
	summary.AtlasOmitted = atlas.Omitted

	payload, err := encodePNG(canvas)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "bundle", "encode atlas", "", err)
	}
	return payload, nil
}

// writeRawSlices archives every resident slice under its source path for
// round-trip traceability. Slices without pixels are skipped.
func (e *Exporter) writeRawSlices(arch *archive, store *slice.Store) error {
	for _, s := range store.All() {
		if s.Image == nil {
			continue
		}
		payload, err := encodePNG(s.Image)
		if err != nil {
			return errs.Wrap(errs.ErrIO, "bundle", "encode raw slice", string(s.ID), err)
		}
		name := s.SourcePath
		if name == "" {
			name = s.Name
		}
		if err := arch.writeFile("slices/raw/"+name+".png", payload); err != nil {
			return err
		}
	}
	return nil
}

type traceLayer struct {
	PSDPath   string `json:"psdPath"`
	SliceID   string `json:"sliceId"`
	Canonical string `json:"canonical"`
}

type traceDocument struct {
	Layers []traceLayer `json:"layers"`
}

// writeTracePaths emits psd-paths.json, mapping each mapped slot back to
// its source layer path.
func (e *Exporter) writeTracePaths(arch *archive, av *avatar.Avatar, store *slice.Store) error {
	trace := traceDocument{}
	for _, slot := range av.SlotPaths() {
		s, err := av.ResolveSlice(store, slot)
		if err != nil {
			return err
		}
		trace.Layers = append(trace.Layers, traceLayer{
			PSDPath:   s.SourcePath,
			SliceID:   string(s.ID),
			Canonical: slot,
		})
	}
	payload, err := json.MarshalIndent(trace, "", "  ")
	if err != nil {
		return errs.Wrap(errs.ErrIO, "bundle", "marshal psd-paths.json", "", err)
	}
	return arch.writeFile("psd-paths.json", payload)
}

func (e *Exporter) writeItems(arch *archive, items []wardrobe.Item, canon map[string][]byte) error {
	for _, item := range items {
		base := "wardrobe/" + item.Type + "/" + item.SKU + "/"
		payload, err := item.Marshal()
		if err != nil {
			return errs.Wrap(errs.ErrIO, "bundle", "marshal item", item.Type+"/"+item.SKU, err)
		}
		if err := arch.writeFile(base+"item.json", payload); err != nil {
			return err
		}
		for _, slot := range item.Fills {
			pixels, ok := canon[slot]
			if !ok {
				return errs.Wrap(errs.ErrConsistency, "bundle", "item slices",
					item.Type+"/"+item.SKU+" fills unmapped slot "+slot, nil)
			}
			if err := arch.writeFile(base+wardrobe.SliceFilename(slot), pixels); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Exporter) writePreviews(arch *archive, av *avatar.Avatar, req Request) error {
	size := e.cfg.Export.PreviewSize
	face := loadFace(e.cfg.Export.FontPath, float64(size)/24, e.logger)

	dc, err := renderPreview(av, req.Slices, av.SlotPaths(), av.Name, size, face)
	if err != nil {
		return err
	}
	payload, err := encodePNG(dc.Image())
	if err != nil {
		return errs.Wrap(errs.ErrIO, "bundle", "encode preview", "avatar", err)
	}
	if err := arch.writeFile("previews/avatar.png", payload); err != nil {
		return err
	}

	for _, item := range req.Items {
		dc, err := renderPreview(av, req.Slices, item.Fills, item.Type+"/"+item.SKU, size, face)
		if err != nil {
			return err
		}
		payload, err := encodePNG(dc.Image())
		if err != nil {
			return errs.Wrap(errs.ErrIO, "bundle", "encode preview", item.SKU, err)
		}
		if err := arch.writeFile("previews/"+item.Type+"_"+item.SKU+".png", payload); err != nil {
			return err
		}
	}
	return nil
}

func readmeText(av *avatar.Avatar, summary *Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", av.Name)
	fmt.Fprintf(&b, "Generated by %s on %s.\n", av.Generator, time.Now().Format("2006-01-02"))
	fmt.Fprintf(&b, "Rig: %s\n", av.RigID)
	fmt.Fprintf(&b, "Slots: %d\n", summary.SlotCount)
	fmt.Fprintf(&b, "Wardrobe items: %d\n", summary.ItemCount)
	b.WriteString("\nLayout:\n")
	b.WriteString("  avatar.json       slot geometry, draw order, anchors\n")
	b.WriteString("  manifest.json     schema versions and payload hashes\n")
	b.WriteString("  slices/canon/     per-slot images by canonical path\n")
	b.WriteString("  slices/raw/       source images by original layer path\n")
	b.WriteString("  rules/            the alias rules active at export time\n")
	b.WriteString("  wardrobe/         extracted items, one folder per sku\n")
	return b.String()
}

func bundleFilename(name, version string) string {
	return slug(name) + "-" + version + ".zip"
}

// slug lowercases and collapses non-alphanumerics to single dashes.
func slug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "avatar"
	}
	return out
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blit copies src into dst at the rect's origin without scaling.
func blit(dst *image.RGBA, src image.Image, at geom.Rect) {
	if src == nil {
		return
	}
	b := src.Bounds()
	for y := 0; y < b.Dy() && y < at.H; y++ {
		for x := 0; x < b.Dx() && x < at.W; x++ {
			dst.Set(at.X+x, at.Y+y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
}
