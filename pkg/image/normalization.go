package image

import (
	"crypto/md5" //nolint:gosec // used as a name hash, must match ko's flattened image names
	"encoding/hex"
	"strings"

	log "github.com/tektoncd/koparse/pkg/log"
)

// MD5Hex returns the 32 character lowercase hex MD5 of s.
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec // not a security boundary
	return hex.EncodeToString(sum[:])
}

// ConvertImagePath flattens <registry>/<path>/<name>[:<tag>] into
// <name>-<md5(registry/path/name)>[:<tag>], the naming ko uses when the
// target registry does not preserve the import path. The hash covers
// everything before the first ":". A tag is kept only when the input holds
// exactly one ":"; ambiguous inputs such as host:port/name:tag lose it.
func ConvertImagePath(image string) string {
	parts := strings.Split(image, TagSeparator)
	pathAndName := parts[0]

	bareName := pathAndName
	if idx := strings.LastIndex(pathAndName, PathSeparator); idx >= 0 {
		bareName = pathAndName[idx+1:]
	}

	converted := bareName + "-" + MD5Hex(pathAndName)
	if len(parts) == 2 {
		converted += TagSeparator + parts[1]
	}
	log.Debug("Flattened image path", "image", image, "result", converted)
	return converted
}
