package sourceimport

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	vpk "github.com/galaco/vpk2"
	"github.com/pkg/errors"
)

var errFileNotFound = errors.New("file not found")

// FileSystem resolves game relative paths such as "models/props/crate.mdl".
type FileSystem interface {
	Open(path string) (io.ReadCloser, error)
}

// VFS searches a map's embedded pakfile first, then VPK archives, then plain
// directories, in the order given.
type VFS struct {
	pakfile      *zip.Reader
	pakfileIndex map[string]*zip.File
	vpks         []*vpk.VPK
	dirs         []string
}

// NewVFS returns a file system over the given sources. pakfile may be nil.
func NewVFS(pakfile *zip.Reader, vpks []*vpk.VPK, dirs ...string) *VFS {
	v := &VFS{
		pakfile:      pakfile,
		pakfileIndex: make(map[string]*zip.File),
		vpks:         vpks,
		dirs:         dirs,
	}

	if pakfile != nil {
		for _, f := range pakfile.File {
			v.pakfileIndex[strings.ToLower(f.Name)] = f
		}
	}

	return v
}

// Open returns the first non-empty file found at path.
func (v *VFS) Open(path string) (io.ReadCloser, error) {
	path = filepath.ToSlash(path)

	if v.pakfile != nil {
		f, err := v.pakfile.Open(path)
		if err == nil {
			stat, err := f.Stat()
			if err == nil && stat.Size() > 0 {
				return f, nil
			}

			f.Close()
		}

		// pakfile paths are not reliably lower case
		if zf, ok := v.pakfileIndex[strings.ToLower(path)]; ok && zf.UncompressedSize64 > 0 {
			if f, err := zf.Open(); err == nil {
				return f, nil
			}
		}
	}

	for _, archive := range v.vpks {
		f, err := archive.Open(path)
		if err != nil {
			continue
		}

		stat, err := f.Stat()
		if err == nil && stat.Size() > 0 {
			return f, nil
		}

		f.Close()
	}

	for _, dir := range v.dirs {
		f, err := os.Open(filepath.Join(dir, filepath.FromSlash(path)))
		if err != nil {
			continue
		}

		stat, err := f.Stat()
		if err == nil && stat.Mode().IsRegular() && stat.Size() > 0 {
			return f, nil
		}

		f.Close()
	}

	return nil, errors.Wrapf(errFileNotFound, "%s not found", path)
}

// OpenVPKs opens VPK archives. A path ending in "_dir.vpk" or naming no
// file at all is taken as a multi part archive, any other ".vpk" as a single
// part one.
func OpenVPKs(paths ...string) ([]*vpk.VPK, error) {
	archives := make([]*vpk.VPK, 0, len(paths))

	for _, p := range paths {
		var opener vpk.Opener

		switch {
		case strings.HasSuffix(p, "_dir.vpk"):
			opener = vpk.MultiVPK(strings.TrimSuffix(p, "_dir.vpk"))
		case strings.HasSuffix(p, ".vpk"):
			opener = vpk.SingleVPK(p)
		default:
			opener = vpk.MultiVPK(p)
		}

		archive, err := vpk.Open(opener)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open VPK %q", p)
		}

		archives = append(archives, archive)
	}

	return archives, nil
}
