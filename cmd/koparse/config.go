package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tektoncd/koparse/pkg/audit"
	log "github.com/tektoncd/koparse/pkg/log"
	"github.com/tektoncd/koparse/pkg/registry"
	"github.com/tektoncd/koparse/pkg/strategy"
)

// errUsage marks errors caused by missing or invalid inputs.
var errUsage = errors.New("invalid usage")

// newViper binds the command flags, KOPARSE_* environment variables and
// the optional --config file. Flags win over env, env over the file.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetFs(AppFs)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if cfgFile := v.GetString(flagConfig); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", cfgFile, err)
		}
	}
	return v, nil
}

// setupLogging applies --debug / --log-level.
func setupLogging(v *viper.Viper) {
	level := log.LevelWarn
	if v.GetBool(flagDebug) {
		level = log.LevelDebug
	} else if levelStr := v.GetString(flagLogLevel); levelStr != "" {
		parsed, err := log.ParseLevel(levelStr)
		if err != nil {
			log.Warn("Invalid log level, keeping default", "level", levelStr, "default", level.String(), "error", err)
		} else {
			level = parsed
		}
	}
	log.SetLevel(level)
}

// auditParams resolves the audit inputs from v, loading --images-file if set.
func auditParams(v *viper.Viper) (audit.Params, error) {
	p := audit.Params{
		Path:              v.GetString(flagPath),
		ContainerRegistry: v.GetString(flagContainerRegistry),
		Base:              v.GetString(flagBase),
		Images:            nonEmpty(v.GetStringSlice(flagImages)),
		PreservePath:      v.GetBool(flagPreservePath),
		VerifyDigests:     v.GetBool(flagVerifyDigests),
	}

	if name := v.GetString(flagPathStrategy); name != "" {
		if _, err := strategy.GetStrategy(name); err != nil {
			return p, fmt.Errorf("%w: --%s: %w", errUsage, flagPathStrategy, err)
		}
		p.PathStrategy = name
	}

	if imagesFile := v.GetString(flagImagesFile); imagesFile != "" {
		fromFile, err := registry.LoadImagesFile(AppFs, imagesFile)
		if err != nil {
			return p, err
		}
		p.Images = append(p.Images, fromFile...)
	}

	var missing []string
	if p.Path == "" {
		missing = append(missing, "--"+flagPath)
	}
	if p.Base == "" {
		missing = append(missing, "--"+flagBase)
	}
	if len(p.Images) == 0 {
		missing = append(missing, "--"+flagImages)
	}
	if len(missing) > 0 {
		return p, fmt.Errorf("%w: required flag(s) %s not set", errUsage, strings.Join(missing, ", "))
	}
	return p, nil
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
