// Package manifest extracts digest-pinned image references from release
// manifests produced by ko.
package manifest

import (
	"bufio"
	"errors"
	"io"
	"regexp"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/tektoncd/koparse/pkg/image"
	log "github.com/tektoncd/koparse/pkg/log"
)

const (
	namePattern   = `[0-9a-z\-/\.]+`
	tagPattern    = `(?::[0-9a-zA-Z\-\._]+)?`
	digestPattern = image.DigestMarker + `:[0-9a-f]+`
)

// ErrInvalidPrefix is returned when the prefix does not compile into a pattern.
var ErrInvalidPrefix = errors.New("invalid image prefix")

// Pattern builds the image matcher for prefix.
//
// The prefix is inserted into the expression as is. Callers that want a
// literal prefix containing regex metacharacters must escape it with
// regexp.QuoteMeta themselves; unescaped dots in registry names match any
// character, which existing pipelines rely on.
func Pattern(prefix string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(prefix + namePattern + tagPattern + digestPattern)
	if err != nil {
		return nil, pkgerrors.Wrapf(ErrInvalidPrefix, "%q: %v", prefix, err)
	}
	return re, nil
}

// Scanner reads manifests from a filesystem.
type Scanner struct {
	fs afero.Fs
}

// NewScanner returns a Scanner reading from fs, or from the OS filesystem when fs is nil.
func NewScanner(fs afero.Fs) *Scanner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Scanner{fs: fs}
}

// ScanFile returns every image under prefix found in the file at path,
// in file order, duplicates preserved.
func (s *Scanner) ScanFile(prefix, path string) (images []string, err error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open manifest %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = pkgerrors.Wrapf(cerr, "failed to close manifest %s", path)
		}
	}()

	images, err = Scan(prefix, f)
	if err != nil {
		return nil, pkgerrors.WithMessagef(err, "manifest %s", path)
	}
	log.Debug("Scanned manifest", "path", path, "prefix", prefix, "images", len(images))
	return images, nil
}

// ReadFile returns the whole manifest, used to dump it when the audit fails.
func (s *Scanner) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read manifest %s", path)
	}
	return data, nil
}

// Scan returns every match of Pattern(prefix) in r, line by line.
// Input without matches yields an empty slice and no error.
func Scan(prefix string, r io.Reader) ([]string, error) {
	re, err := Pattern(prefix)
	if err != nil {
		return nil, err
	}

	images := []string{}
	br := bufio.NewReader(r)
	for {
		line, readErr := br.ReadString('\n')
		if line != "" {
			images = append(images, re.FindAllString(line, -1)...)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, pkgerrors.Wrap(readErr, "failed to read manifest")
		}
	}
	return images, nil
}
