// Package strategy defines how expected image identifiers are mapped onto the
// names a build publishes, depending on whether the registry layout preserves
// the source import path.
package strategy

import (
	"fmt"

	"github.com/tektoncd/koparse/pkg/image"
	log "github.com/tektoncd/koparse/pkg/log"
)

// Strategy names accepted by GetStrategy.
const (
	PreservePathName = "preserve"
	FlattenName      = "flatten"
)

// PathStrategy maps an expected image identifier (path/name[:tag], no registry)
// onto the repository path the build publishes it under.
type PathStrategy interface {
	GeneratePath(expected string) string
	Name() string
}

// GetStrategy returns a path strategy based on the name
func GetStrategy(name string) (PathStrategy, error) {
	switch name {
	case PreservePathName:
		return NewPreservePathStrategy(), nil
	case FlattenName:
		return NewFlattenStrategy(), nil
	default:
		log.Debug("Unknown path strategy requested", "name", name)
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}
}

// ForPreservePath selects the strategy matching the --preserve-path flag.
func ForPreservePath(preservePath bool) PathStrategy {
	if preservePath {
		return NewPreservePathStrategy()
	}
	return NewFlattenStrategy()
}

// Apply maps every entry of images through s into a new slice.
func Apply(s PathStrategy, images []string) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = s.GeneratePath(img)
	}
	return out
}

// PreservePathStrategy leaves the identifier untouched.
// Example: github.com/tektoncd/pipeline/cmd/controller -> github.com/tektoncd/pipeline/cmd/controller
type PreservePathStrategy struct{}

// NewPreservePathStrategy creates a new PreservePathStrategy.
func NewPreservePathStrategy() *PreservePathStrategy {
	return &PreservePathStrategy{}
}

// GeneratePath implements the PathStrategy interface.
func (s *PreservePathStrategy) GeneratePath(expected string) string {
	return expected
}

// Name implements the PathStrategy interface.
func (s *PreservePathStrategy) Name() string {
	return PreservePathName
}

// FlattenStrategy replaces the path with a name-hash suffix.
// Example: github.com/tektoncd/pipeline/cmd/git-init -> git-init-4874978a9786b6625dd8b6ef2a21aa70
type FlattenStrategy struct{}

// NewFlattenStrategy creates a new FlattenStrategy.
func NewFlattenStrategy() *FlattenStrategy {
	return &FlattenStrategy{}
}

// GeneratePath implements the PathStrategy interface.
func (s *FlattenStrategy) GeneratePath(expected string) string {
	return image.ConvertImagePath(expected)
}

// Name implements the PathStrategy interface.
func (s *FlattenStrategy) Name() string {
	return FlattenName
}
