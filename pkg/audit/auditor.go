package audit

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/tektoncd/koparse/pkg/image"
	log "github.com/tektoncd/koparse/pkg/log"
	"github.com/tektoncd/koparse/pkg/manifest"
	"github.com/tektoncd/koparse/pkg/registry"
	"github.com/tektoncd/koparse/pkg/strategy"
)

// ErrMissingParameter is returned when a required audit parameter is empty.
var ErrMissingParameter = errors.New("missing required parameter")

// Params are the inputs of one audit run.
type Params struct {
	// Path of the release manifest.
	Path string
	// ContainerRegistry is the registry and path images are published under.
	// Empty means it is derived from Base (see registry.AdaptLegacyParams).
	ContainerRegistry string
	// Base is the prefix, below the registry, that built images start with.
	Base string
	// Images are the expected image identifiers without digests.
	Images []string
	// PreservePath is true when the registry keeps the full import path.
	PreservePath bool
	// PathStrategy names a strategy.PathStrategy; when set it overrides PreservePath.
	PathStrategy string
	// VerifyDigests parses every matched image and validates its digest.
	VerifyDigests bool
}

// Result describes a successful audit, or the inputs of a failed one.
type Result struct {
	// Images are the matched references in manifest order.
	Images []string
	// ContainerRegistry, Base and Expected are the values after legacy adaptation.
	ContainerRegistry string
	Base              string
	Expected          []string
	// Prefix is the scan prefix built from the adapted values.
	Prefix string
}

// Auditor scans manifests and compares them with expectations.
type Auditor struct {
	scanner *manifest.Scanner
}

// NewAuditor returns an Auditor reading manifests from fs.
func NewAuditor(fs afero.Fs) *Auditor {
	return &Auditor{scanner: manifest.NewScanner(fs)}
}

// Scanner exposes the manifest scanner, e.g. to dump the manifest after a mismatch.
func (a *Auditor) Scanner() *manifest.Scanner {
	return a.scanner
}

// Run performs one audit. On failure the returned Result still carries the
// adapted parameters and whatever images were matched before the error.
func (a *Auditor) Run(p Params) (*Result, error) {
	if p.Path == "" {
		return nil, fmt.Errorf("%w: path", ErrMissingParameter)
	}
	if p.Base == "" {
		return nil, fmt.Errorf("%w: base", ErrMissingParameter)
	}
	if len(p.Images) == 0 {
		return nil, fmt.Errorf("%w: images", ErrMissingParameter)
	}

	pathStrategy, err := p.pathStrategy()
	if err != nil {
		return nil, err
	}
	preservePath := pathStrategy.Name() == strategy.PreservePathName

	res := &Result{}
	res.ContainerRegistry, res.Base, res.Expected = registry.AdaptLegacyParams(p.ContainerRegistry, p.Base, p.Images)
	res.Prefix = ScanPrefix(res.ContainerRegistry, res.Base, preservePath)
	log.Debug("Resolved audit parameters",
		"registry", res.ContainerRegistry, "base", res.Base, "prefix", res.Prefix,
		"expected", res.Expected, "strategy", pathStrategy.Name())

	images, err := a.scanner.ScanFile(res.Prefix, p.Path)
	if err != nil {
		return res, err
	}
	res.Images = images

	if p.VerifyDigests {
		if err := image.VerifyDigests(images); err != nil {
			return res, err
		}
	}

	if err := compareWith(pathStrategy, res.Expected, images, res.ContainerRegistry); err != nil {
		return res, err
	}
	log.Info("Release images match expectations", "count", len(images))
	return res, nil
}

func (p Params) pathStrategy() (strategy.PathStrategy, error) {
	if p.PathStrategy == "" {
		return strategy.ForPreservePath(p.PreservePath), nil
	}
	return strategy.GetStrategy(p.PathStrategy)
}

// ScanPrefix returns the manifest prefix images are expected under: the full
// registry/base path when paths are preserved, the registry alone otherwise.
func ScanPrefix(containerRegistry, base string, preservePath bool) string {
	if preservePath {
		return registry.Join(containerRegistry, base)
	}
	return containerRegistry
}
