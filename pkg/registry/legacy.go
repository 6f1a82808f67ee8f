// Package registry resolves the container registry an audit runs against and
// loads expected image lists.
package registry

import (
	"strings"

	log "github.com/tektoncd/koparse/pkg/log"
)

// legacySegments is how many leading path segments of --base formed the
// registry before --container-registry existed (e.g. gcr.io/tekton-releases).
const legacySegments = 2

// AdaptLegacyParams keeps callers that predate --container-registry working.
// When containerRegistry is empty it is taken from the first two segments of
// base, and those two segments are stripped from base and from every image.
// A non-empty containerRegistry returns all values unchanged.
func AdaptLegacyParams(containerRegistry, base string, images []string) (string, string, []string) {
	if containerRegistry != "" {
		return containerRegistry, base, images
	}

	head, rest := splitSegments(base)
	stripped := make([]string, len(images))
	for i, img := range images {
		_, stripped[i] = splitSegments(img)
	}

	log.Debug("Derived container registry from base", "base", base, "registry", head, "newBase", rest)
	return head, rest, stripped
}

// splitSegments splits s into its first legacySegments "/"-separated
// segments and the remainder.
func splitSegments(s string) (head, rest string) {
	parts := strings.Split(s, "/")
	if len(parts) <= legacySegments {
		return s, ""
	}
	return strings.Join(parts[:legacySegments], "/"), strings.Join(parts[legacySegments:], "/")
}

// Join prefixes image with the registry.
func Join(containerRegistry, image string) string {
	return containerRegistry + "/" + image
}
