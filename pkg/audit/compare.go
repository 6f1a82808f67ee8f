// Package audit checks that a release manifest contains exactly the images a
// build was expected to produce.
package audit

import (
	"sort"

	"github.com/tektoncd/koparse/pkg/image"
	log "github.com/tektoncd/koparse/pkg/log"
	"github.com/tektoncd/koparse/pkg/registry"
	"github.com/tektoncd/koparse/pkg/strategy"
)

// Compare ensures actual holds exactly the expected images.
//
// expected entries are path/name[:tag] identifiers without registry or digest;
// actual entries are full references as found in the manifest. The first
// actual entry lacking the digest marker fails with *image.BadActualImageFormatError.
// Otherwise expected entries are flattened unless preservePath is set, prefixed
// with containerRegistry, and compared as sets against the digest-stripped
// actual entries. Any difference fails with *image.ImagesMismatchError.
func Compare(expected, actual []string, containerRegistry string, preservePath bool) error {
	return compareWith(strategy.ForPreservePath(preservePath), expected, actual, containerRegistry)
}

func compareWith(pathStrategy strategy.PathStrategy, expected, actual []string, containerRegistry string) error {
	for _, img := range actual {
		if !image.HasDigest(img) {
			return image.NewBadActualImageFormatError(img)
		}
	}

	expectedSet := make(map[string]struct{}, len(expected))
	for _, img := range strategy.Apply(pathStrategy, expected) {
		expectedSet[registry.Join(containerRegistry, img)] = struct{}{}
	}

	actualSet := make(map[string]struct{}, len(actual))
	for _, img := range actual {
		actualSet[image.StripDigest(img)] = struct{}{}
	}

	missing := difference(expectedSet, actualSet)
	extra := difference(actualSet, expectedSet)
	if len(missing) > 0 || len(extra) > 0 {
		log.Debug("Image sets differ", "strategy", pathStrategy.Name(), "missing", missing, "extra", extra)
		return image.NewImagesMismatchError(missing, extra)
	}
	return nil
}

// difference returns the sorted members of a that are not in b.
func difference(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
