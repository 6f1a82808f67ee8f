// Package main implements koparse, the release image auditor.
//
// koparse parses the image references that ko embeds in a release manifest,
// prints them, and verifies that exactly the expected images were built.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tektoncd/koparse/pkg/audit"
	"github.com/tektoncd/koparse/pkg/exitcodes"
	"github.com/tektoncd/koparse/pkg/image"
	log "github.com/tektoncd/koparse/pkg/log"
)

// AppFs defines the filesystem interface to use, allows mocking in tests.
var AppFs = afero.NewOsFs()

// SetFs replaces the current filesystem with the provided one and returns a function to restore it.
func SetFs(newFs afero.Fs) func() {
	oldFs := AppFs
	AppFs = newFs
	return func() { AppFs = oldFs }
}

// newRootCmd builds the koparse command. A fresh command per call keeps
// flag state from leaking between test executions.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "koparse",
		Short: "Parse and verify the images built into a ko release manifest",
		Long: `koparse parses release manifests produced by ko.

ko embeds the full names of the images it builds, including their digests,
into the resulting YAML. koparse extracts the images that start with the
configured registry and base path, prints them to stdout, and verifies that
all expected images were built and no others.

--images takes one or more values, space or comma separated, and may be
repeated. --preserve-path accepts --preserve-path=false or
--preserve-path false. --path-strategy (preserve or flatten) overrides it.

Every flag can also be set through a KOPARSE_* environment variable
(e.g. KOPARSE_CONTAINER_REGISTRY) or a YAML file passed with --config.

Exit codes:
` + exitCodeHelp(),
		Example: `  # Registry given explicitly
  koparse --path release.yaml \
    --container-registry gcr.io/tekton-releases \
    --base github.com/tektoncd/pipeline/cmd/ \
    --images github.com/tektoncd/pipeline/cmd/controller github.com/tektoncd/pipeline/cmd/webhook

  # Legacy form: the registry is the first two segments of --base
  koparse --path release.yaml \
    --base gcr.io/tekton-releases/github.com/tektoncd/pipeline/cmd/ \
    --images gcr.io/tekton-releases/github.com/tektoncd/pipeline/cmd/controller \
    --preserve-path false`,
		Version:       BinaryVersion,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAudit,
	}

	flags := cmd.Flags()
	flags.String(flagPath, "", "Path to the release.yaml (required)")
	flags.String(flagContainerRegistry, "", "Container registry URI and path e.g. gcr.io/tekton-releases")
	flags.String(flagBase, "", "String prefix which is used to find images within the release.yaml (required)")
	flags.StringSlice(flagImages, nil, "Images expected to be built, without digests (required unless --images-file is set)")
	flags.String(flagImagesFile, "", "YAML file listing additional expected images")
	flags.Bool(flagPreservePath, true, "Whether ko is configured to preserve the images base path")
	flags.String(flagPathStrategy, "", "Path strategy by name (preserve, flatten); overrides --preserve-path when set")
	flags.Bool(flagVerifyDigests, false, "Parse every matched image and validate its sha256 digest")
	flags.String(flagConfig, "", "YAML config file with values for any of these flags")
	flags.String(flagLogLevel, "warn", "Log level (debug, info, warn, error)")
	flags.Bool(flagDebug, false, "Enable debug logging")

	return cmd
}

// Execute runs the root command against os.Args.
func Execute() error {
	return execute(newRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(cmd *cobra.Command, args []string, stdout, stderr io.Writer) error {
	cmd.SetArgs(normalizeArgs(cmd.Flags(), args))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return nil
	}
	// runAudit reports its own failures; anything else is a usage error.
	if _, reported := exitcodes.IsExitCodeError(err); !reported {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.CommandPath())
		err = exitcodes.Wrap(err)
	}
	return err
}

func runAudit(cmd *cobra.Command, _ []string) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}
	setupLogging(v)
	if cfgFile := v.ConfigFileUsed(); cfgFile != "" {
		log.Debug("Loaded config file", "file", cfgFile)
	}

	params, err := auditParams(v)
	if err != nil {
		if errors.Is(err, errUsage) {
			return err
		}
		return reportFailure(cmd.ErrOrStderr(), msgDetermineFailed, err)
	}

	auditor := audit.NewAuditor(AppFs)
	res, err := auditor.Run(params)
	if err != nil {
		var mismatch *image.ImagesMismatchError
		if !errors.As(err, &mismatch) {
			return reportFailure(cmd.ErrOrStderr(), msgDetermineFailed, err)
		}
		reportErr := reportFailure(cmd.ErrOrStderr(), msgMismatch, err)
		dumpManifest(cmd.ErrOrStderr(), auditor, params.Path)
		return reportErr
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(res.Images, "\n"))
	return nil
}

func reportFailure(w io.Writer, prefix string, err error) error {
	fmt.Fprintf(w, "%s: %v\n", prefix, err)
	return exitcodes.Wrap(err)
}

func dumpManifest(w io.Writer, auditor *audit.Auditor, path string) {
	data, err := auditor.Scanner().ReadFile(path)
	if err != nil {
		log.Error("Could not dump manifest", "path", path, "error", err)
		return
	}
	if _, err := w.Write(data); err != nil {
		log.Error("Could not write manifest dump", "error", err)
	}
}

// exitCodeHelp lists exitcodes.CodeDescriptions in ascending code order.
func exitCodeHelp() string {
	codes := make([]int, 0, len(exitcodes.CodeDescriptions))
	for code := range exitcodes.CodeDescriptions {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	var sb strings.Builder
	for _, code := range codes {
		fmt.Fprintf(&sb, "  %d  %s\n", code, exitcodes.CodeDescriptions[code])
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
