package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/danieljhkim/festplan/internal/catalog"
	"github.com/danieljhkim/festplan/internal/clock"
	"github.com/danieljhkim/festplan/internal/config"
	"github.com/danieljhkim/festplan/internal/engine"
	"github.com/danieljhkim/festplan/internal/fsops"
	"github.com/danieljhkim/festplan/internal/hash"
	"github.com/danieljhkim/festplan/internal/logger"
	"github.com/danieljhkim/festplan/internal/state"
)

// flagKeys maps command-line flags onto setting keys.
var flagKeys = map[string]string{
	"root":    config.KeyRoot,
	"catalog": config.KeyCatalog,
	"plan":    config.KeyPlan,
	"backend": config.KeyBackend,
	"addr":    config.KeyAddr,
	"verbose": config.KeyVerbose,
}

// loadSettings resolves the configuration for cmd. Flags visible to the command
// are bound onto a fresh viper instance so they override the environment and
// the config file.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	v := viper.New()
	for name, key := range flagKeys {
		if f := cmd.Flag(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}
	return config.Load(v, configFile)
}

// newEngine creates an engine with real implementations of all dependencies
// and restores the configured plan.
func newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(settings.Verbose)
	if err != nil {
		return nil, err
	}
	return openEngine(cmd.Context(), settings, log)
}

// openEngine wires an engine from resolved settings.
func openEngine(ctx context.Context, settings *config.Settings, log *zap.Logger) (*engine.Engine, error) {
	paths := settings.Paths()
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	fs := fsops.NewRealFS()
	if err := fs.ValidateName(settings.Plan); err != nil {
		return nil, fmt.Errorf("%w: plan %v", engine.ErrValidation, err)
	}

	cat, err := catalog.Load(settings.Catalog)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: no lineup at %s; pass --catalog or set FESTPLAN_CATALOG", engine.ErrCatalog, settings.Catalog)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrCatalog, err)
	}
	checksum, err := hash.NewSHA256Hasher().HashFile(settings.Catalog)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrCatalog, err)
	}

	stateStore, err := state.Open(settings.Backend, paths, fs)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s state store: %w", settings.Backend, err)
	}

	log.Debug("opening plan",
		zap.String("plan", settings.Plan),
		zap.String("backend", settings.Backend),
		zap.String("catalog", settings.Catalog),
		zap.String("config_file", settings.ConfigFile),
	)

	eng := engine.New(
		engine.Lineup{Catalog: cat, Path: settings.Catalog, Checksum: checksum},
		stateStore,
		fs,
		clock.System{},
		log,
		settings.Plan,
	)
	if ctx == nil {
		ctx = context.Background()
	}
	if err := eng.Load(ctx); err != nil {
		_ = eng.Close()
		return nil, err
	}
	return eng, nil
}

// withEngine runs fn against a freshly opened engine and closes it afterwards.
func withEngine(cmd *cobra.Command, fn func(ctx context.Context, eng *engine.Engine) error) error {
	eng, err := newEngine(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	err = fn(ctx, eng)
	if cerr := eng.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// formatJSON formats a value as JSON.
func formatJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
