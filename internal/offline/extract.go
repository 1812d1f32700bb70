package offline

import (
	"archive/tar"    // For reading .tar archives
	"archive/zip"    // For reading .zip archives
	"compress/bzip2" // For reading .bz2 compressed data
	"compress/gzip"  // For reading .gz compressed data
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip" // For reading .7z archives
	"github.com/xi2/xz"          // For reading .xz compressed data

	"claw-manager/internal/logger"
)

// ErrUnsafePath is returned when an archive entry would be written outside the destination.
var ErrUnsafePath = errors.New("archive entry escapes destination")

// archiveExts lists the formats Extract understands, longest suffix first.
var archiveExts = []string{".tar.gz", ".tar.bz2", ".tar.xz", ".tgz", ".tar", ".zip", ".7z"}

// IsArchive reports whether name has an extension Extract can handle.
func IsArchive(name string) bool {
	return archiveExt(name) != ""
}

func archiveExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range archiveExts {
		if strings.HasSuffix(lower, ext) {
			return ext
		}
	}
	return ""
}

// Extract routes to the appropriate extraction function based on the archive type
// and unpacks src into dest, creating dest when needed.
func Extract(src, dest string) error {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	switch ext := archiveExt(src); ext {
	case ".zip":
		logger.Debug("[DEBUG] compression type is zip\n")
		return extractZip(src, dest)
	case ".7z":
		logger.Debug("[DEBUG] compression type is 7z\n")
		return extract7z(src, dest)
	case "":
		return fmt.Errorf("unsupported archive format: %s", src)
	default:
		logger.Debug("[DEBUG] compression type is %s\n", ext)
		return extractTar(src, dest, ext)
	}
}

// safeJoin resolves an archive entry name below dest.
func safeJoin(dest, name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

// extractTar handles tar and its compressed variants.
func extractTar(src, dest, ext string) error {
	logger.Debug("[DEBUG] uncompressing %s to %s\n", src, dest)
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader io.Reader = f
	switch ext {
	case ".tar.gz", ".tgz":
		gr, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gr.Close()
		reader = gr
	case ".tar.bz2":
		reader = bzip2.NewReader(f)
	case ".tar.xz":
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return err
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			// node tarballs ship bin/npm as a link into lib/
			if err := symlink(dest, target, hdr.Linkname); err != nil {
				return err
			}
		default:
			logger.Debug("[DEBUG] skipping %s (type %c)\n", hdr.Name, hdr.Typeflag)
		}
	}
}

// symlink creates target -> linkname, refusing links that leave dest.
func symlink(dest, target, linkname string) error {
	resolved := linkname
	if !filepath.IsAbs(linkname) {
		resolved = filepath.Join(filepath.Dir(target), linkname)
	}
	rel, err := filepath.Rel(dest, resolved)
	if err != nil || filepath.IsAbs(linkname) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: link %s -> %s", ErrUnsafePath, target, linkname)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	_ = os.Remove(target)
	return os.Symlink(linkname, target)
}

// extractZip extracts a .zip archive.
func extractZip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if err := copyEntry(target, f.Open, f.Mode().Perm()); err != nil {
			return err
		}
	}
	return nil
}

// extract7z handles .7z extraction using the sevenzip library.
// PortableGit is distributed in this format.
func extract7z(src, dest string) error {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open 7z archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if err := copyEntry(target, f.Open, f.Mode().Perm()); err != nil {
			return err
		}
	}
	return nil
}

func copyEntry(target string, open func() (io.ReadCloser, error), perm fs.FileMode) error {
	rc, err := open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return writeFile(target, rc, perm)
}

// writeFile writes r to target, creating parent directories.
// Entries without permission bits get 0644.
func writeFile(target string, r io.Reader, perm fs.FileMode) error {
	if perm == 0 {
		perm = 0644
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
