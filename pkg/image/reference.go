// Package image holds the image reference helpers used by the release image
// auditor: the digest marker, digest stripping, structured parsing and the
// flattened-path conversion applied when a registry does not preserve paths.
package image

import (
	"fmt"
	"strings"

	distref "github.com/distribution/reference"
	"github.com/opencontainers/go-digest"

	log "github.com/tektoncd/koparse/pkg/log"
)

const (
	// DigestMarker separates an image name (and optional tag) from its sha256 digest.
	DigestMarker = "@sha256"
	// PathSeparator separates registry, path and name components.
	PathSeparator = "/"
	// TagSeparator separates the name from the tag.
	TagSeparator = ":"
)

// Reference is the structured form of an image reference found in a manifest.
// The auditor compares plain strings; Reference exists for digest verification
// and for callers that want the individual components.
type Reference struct {
	Original string // The string as it appeared in the manifest
	Registry string // Registry domain, e.g. gcr.io
	Path     string // Path between registry and name, may be empty
	Name     string // Last path segment
	Tag      string // Optional tag
	Digest   string // algorithm:hex
}

// Repository returns the registry-less repository path including the name.
func (r *Reference) Repository() string {
	if r.Path == "" {
		return r.Name
	}
	return r.Path + PathSeparator + r.Name
}

// Identifier returns registry/path/name[:tag], the form used by expected image lists.
func (r *Reference) Identifier() string {
	id := r.Registry + PathSeparator + r.Repository()
	if r.Tag != "" {
		id += TagSeparator + r.Tag
	}
	return id
}

// String returns the full reference including the digest.
func (r *Reference) String() string {
	if r.Digest == "" {
		return r.Identifier()
	}
	return r.Identifier() + "@" + r.Digest
}

// HasDigest reports whether image contains the digest marker.
func HasDigest(image string) bool {
	return strings.Contains(image, DigestMarker)
}

// StripDigest drops everything from the digest marker onwards.
func StripDigest(image string) string {
	if idx := strings.Index(image, DigestMarker); idx >= 0 {
		return image[:idx]
	}
	return image
}

// ParseReference parses a fully qualified image reference that must carry a
// sha256 digest. The digest is validated for algorithm and length.
func ParseReference(imageRef string) (*Reference, error) {
	if imageRef == "" {
		return nil, ErrEmptyImageReference
	}

	named, err := distref.ParseNamed(imageRef)
	if err != nil {
		log.Debug("distribution/reference rejected image", "image", imageRef, "error", err)
		return nil, &InvalidDigestError{Image: imageRef, Err: err}
	}

	digested, ok := named.(distref.Digested)
	if !ok {
		return nil, &InvalidDigestError{Image: imageRef, Err: ErrMissingDigest}
	}
	dgst, err := digest.Parse(digested.Digest().String())
	if err != nil {
		return nil, &InvalidDigestError{Image: imageRef, Err: err}
	}
	if dgst.Algorithm() != digest.SHA256 {
		return nil, &InvalidDigestError{Image: imageRef, Err: ErrUnsupportedDigest}
	}

	ref := &Reference{
		Original: imageRef,
		Registry: distref.Domain(named),
		Digest:   dgst.String(),
	}
	repoPath := distref.Path(named)
	if idx := strings.LastIndex(repoPath, PathSeparator); idx >= 0 {
		ref.Path = repoPath[:idx]
		ref.Name = repoPath[idx+1:]
	} else {
		ref.Name = repoPath
	}
	if tagged, ok := named.(distref.Tagged); ok {
		ref.Tag = tagged.Tag()
	}

	log.Debug("Parsed image reference", "ref", ref.String(), "registry", ref.Registry, "path", ref.Path, "name", ref.Name, "tag", ref.Tag)
	return ref, nil
}

// VerifyDigests parses every image and returns the first failure. The parsed
// identifier must equal the digest-stripped string the comparison uses.
func VerifyDigests(images []string) error {
	for _, img := range images {
		ref, err := ParseReference(img)
		if err != nil {
			return err
		}
		if err := checkIdentifier(img, ref); err != nil {
			return err
		}
	}
	return nil
}

func checkIdentifier(img string, ref *Reference) error {
	if id := ref.Identifier(); id != StripDigest(img) {
		return &InvalidDigestError{Image: img, Err: fmt.Errorf("%w: parsed as %s", ErrIdentifierMismatch, id)}
	}
	return nil
}
