package image

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors related to image reference parsing.
var (
	ErrEmptyImageReference = errors.New("cannot parse empty image reference")
	ErrMissingDigest       = errors.New("image reference has no digest")
	ErrUnsupportedDigest   = errors.New("unsupported digest algorithm")
	ErrIdentifierMismatch  = errors.New("image identifier does not match its reference")
)

// BadActualImageFormatError is returned when an image observed in a manifest
// does not carry the digest marker.
type BadActualImageFormatError struct {
	Image string
}

func (e *BadActualImageFormatError) Error() string {
	return fmt.Sprintf("format of image %s was unexpected, did not contain %s", e.Image, DigestMarker)
}

// NewBadActualImageFormatError creates a new BadActualImageFormatError.
func NewBadActualImageFormatError(image string) error {
	return &BadActualImageFormatError{Image: image}
}

// ImagesMismatchError reports the difference between the expected and the
// actual image sets. Both slices are unordered collections.
type ImagesMismatchError struct {
	Missing []string
	Extra   []string
}

func (e *ImagesMismatchError) Error() string {
	var errs []string
	if len(e.Missing) > 0 {
		errs = append(errs, fmt.Sprintf("images %v were expected but missing.", e.Missing))
	}
	if len(e.Extra) > 0 {
		errs = append(errs, fmt.Sprintf("images %v were present but not expected.", e.Extra))
	}
	return strings.Join(errs, " ")
}

// NewImagesMismatchError creates a new ImagesMismatchError.
func NewImagesMismatchError(missing, extra []string) error {
	return &ImagesMismatchError{Missing: missing, Extra: extra}
}

// InvalidDigestError indicates an image whose reference or digest does not
// parse, found while verifying digests.
type InvalidDigestError struct {
	Image string
	Err   error
}

func (e *InvalidDigestError) Error() string {
	return fmt.Sprintf("image %s does not carry a valid digest: %v", e.Image, e.Err)
}

func (e *InvalidDigestError) Unwrap() error {
	return e.Err
}
