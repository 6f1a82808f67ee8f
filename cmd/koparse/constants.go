package main

// BinaryVersion is overridden at build time with -ldflags "-X main.BinaryVersion=...".
var BinaryVersion = "dev"

// Flag names, also used as config file keys.
const (
	flagPath              = "path"
	flagContainerRegistry = "container-registry"
	flagBase              = "base"
	flagImages            = "images"
	flagImagesFile        = "images-file"
	flagPreservePath      = "preserve-path"
	flagPathStrategy      = "path-strategy"
	flagVerifyDigests     = "verify-digests"
	flagConfig            = "config"
	flagLogLevel          = "log-level"
	flagDebug             = "debug"
)

// envPrefix prefixes every environment variable bound to a flag,
// e.g. KOPARSE_CONTAINER_REGISTRY.
const envPrefix = "KOPARSE"

// Diagnostic prefixes written to stderr on failure.
const (
	msgDetermineFailed = "Error determining built images"
	msgMismatch        = "Expected images did not match"
)
