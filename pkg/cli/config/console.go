package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	domainConfig "github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// ConsoleFile is the TOML configuration of the console
type ConsoleFile struct {
	TableKeys        []string `toml:"table_keys"`
	FileNameTemplate []string `toml:"file_name_template"`
}

// Validate checks that every key is well formed
func (c *ConsoleFile) Validate() error {
	for i, k := range c.TableKeys {
		if err := types.MetadataKey(k).Validate(); err != nil {
			return goerr.Wrap(err, "invalid table key", goerr.V(IndexKey, i))
		}
	}
	for i, k := range c.FileNameTemplate {
		if err := types.MetadataKey(k).Validate(); err != nil {
			return goerr.Wrap(err, "invalid file name template key", goerr.V(IndexKey, i))
		}
	}
	return nil
}

// CheckAgainst reports keys that the schema does not define. The console
// tolerates them at runtime; the validate command does not.
func (c *ConsoleFile) CheckAgainst(schema *domainConfig.FieldSchema) error {
	for _, k := range c.TableKeys {
		if _, ok := schema.ByKey(types.MetadataKey(k)); !ok {
			return goerr.Wrap(ErrUnknownTableKey, "table key not in schema", goerr.V(FieldKeyKey, k))
		}
	}
	for _, k := range c.FileNameTemplate {
		if _, ok := schema.ByKey(types.MetadataKey(k)); !ok {
			return goerr.Wrap(ErrUnknownTemplateKey, "template key not in schema", goerr.V(FieldKeyKey, k))
		}
	}
	return nil
}

// LoadConsoleFile reads and validates a console configuration file
func LoadConsoleFile(path string) (*ConsoleFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "console config not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read console config", goerr.V(ConfigPathKey, path))
	}

	var cfg ConsoleFile
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML console config",
			goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "console config validation failed", goerr.V(ConfigPathKey, path))
	}
	return &cfg, nil
}

// Console holds CLI flags for the console
type Console struct {
	path      string
	tableKeys []string
	template  []string
	batchID   int64
}

func (x *Console) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "console-config",
			Usage:       "Path to the console TOML file (table_keys, file_name_template)",
			Category:    "Console",
			Sources:     cli.EnvVars("METAFORM_CONSOLE_CONFIG"),
			Destination: &x.path,
		},
		&cli.StringSliceFlag{
			Name:        "table-key",
			Usage:       "Metadata key shown as a table column (repeatable, overrides the file)",
			Category:    "Console",
			Sources:     cli.EnvVars("METAFORM_TABLE_KEYS"),
			Destination: &x.tableKeys,
		},
		&cli.StringSliceFlag{
			Name:        "file-name-key",
			Usage:       "Metadata key joined into new item names (repeatable, overrides the file)",
			Category:    "Console",
			Sources:     cli.EnvVars("METAFORM_FILE_NAME_TEMPLATE"),
			Destination: &x.template,
		},
		&cli.Int64Flag{
			Name:        "batch-id",
			Usage:       "Work on this batch instead of the current one",
			Category:    "Console",
			Sources:     cli.EnvVars("METAFORM_BATCH_ID"),
			Destination: &x.batchID,
		},
	}
}

func (x Console) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("config", x.path),
		slog.Any("table_keys", x.tableKeys),
		slog.Any("file_name_template", x.template),
		slog.Int64("batch_id", x.batchID),
	)
}

// BatchID returns the selected batch, zero for the current one
func (x *Console) BatchID() types.BatchID {
	return types.BatchID(x.batchID)
}

// Configure merges the file with flag overrides
func (x *Console) Configure() (*ConsoleFile, error) {
	cfg := &ConsoleFile{}
	if x.path != "" {
		loaded, err := LoadConsoleFile(x.path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if len(x.tableKeys) > 0 {
		cfg.TableKeys = x.tableKeys
	}
	if len(x.template) > 0 {
		cfg.FileNameTemplate = x.template
	}
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid console flags")
	}
	return cfg, nil
}
