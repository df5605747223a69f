package bundle

import (
	"archive/zip"
	"io"
	"path"
	"sort"

	"avatarforge/internal/errs"
	"avatarforge/internal/manifest"
)

// archive wraps a zip writer, registering every payload's hash in the
// manifest and emitting directory entries exactly once.
type archive struct {
	zw       *zip.Writer
	manifest *manifest.Manifest
	dirs     map[string]bool
}

func newArchive(w io.Writer, m *manifest.Manifest) *archive {
	return &archive{
		zw:       zip.NewWriter(w),
		manifest: m,
		dirs:     make(map[string]bool),
	}
}

// writeFile stores one payload at an archive-relative path and records
// its hash. The manifest itself is written last via writeManifest and is
// the only unhashed entry.
func (a *archive) writeFile(name string, payload []byte) error {
	if err := a.ensureDirs(name); err != nil {
		return err
	}
	w, err := a.zw.Create(name)
	if err != nil {
		return errs.Wrap(errs.ErrIO, "bundle", "archive entry", name, err)
	}
	if _, err := w.Write(payload); err != nil {
		return errs.Wrap(errs.ErrIO, "bundle", "archive write", name, err)
	}
	a.manifest.RecordHash(name, payload)
	return nil
}

func (a *archive) writeManifest() error {
	payload, err := a.manifest.Marshal()
	if err != nil {
		return errs.Wrap(errs.ErrIO, "bundle", "marshal manifest", "", err)
	}
	w, err := a.zw.Create("manifest.json")
	if err != nil {
		return errs.Wrap(errs.ErrIO, "bundle", "archive entry", "manifest.json", err)
	}
	if _, err := w.Write(payload); err != nil {
		return errs.Wrap(errs.ErrIO, "bundle", "archive write", "manifest.json", err)
	}
	return nil
}

func (a *archive) close() error {
	if err := a.zw.Close(); err != nil {
		return errs.Wrap(errs.ErrIO, "bundle", "close archive", "", err)
	}
	return nil
}

// ensureDirs emits explicit directory entries for every ancestor of
// name, deepest last, so archive browsers show a clean tree.
func (a *archive) ensureDirs(name string) error {
	dir := path.Dir(name)
	if dir == "." || dir == "/" {
		return nil
	}
	var missing []string
	for d := dir; d != "." && d != "/"; d = path.Dir(d) {
		if !a.dirs[d] {
			missing = append(missing, d)
		}
	}
	sort.Strings(missing)
	for _, d := range missing {
		if _, err := a.zw.Create(d + "/"); err != nil {
			return errs.Wrap(errs.ErrIO, "bundle", "archive directory", d, err)
		}
		a.dirs[d] = true
	}
	return nil
}
