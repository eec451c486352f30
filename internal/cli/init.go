package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomathml/internal/configloader"
	"github.com/yaklabco/gomathml/internal/logging"
	"github.com/yaklabco/gomathml/pkg/config"
	"github.com/yaklabco/gomathml/pkg/symbol"
)

const (
	// configFilePermissions is the file mode for configuration files (world-readable).
	configFilePermissions = 0644

	// configDirPermissions is the file mode for the user configuration directory.
	configDirPermissions = 0755
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	user   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new gomathml configuration file",
		Long: `Create a new .gomathml.yml configuration file in the current directory
with sensible defaults. The file can be customized to change the symbol
encoding, declare macros and choose the files rendered by "gomathml render".

A JSON file is not discovered automatically; pass it with --config.`,
		Example: `  gomathml init                      Create minimal .gomathml.yml
  gomathml init --full               Create full config with every key documented
  gomathml init --user               Create the per-user configuration file
  gomathml init --format json        Create gomathml.json instead
  gomathml init --output custom.yml  Write to a custom file path`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with every key documented")
	cmd.Flags().BoolVar(&flags.user, "user", false, "Write the per-user configuration file")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .gomathml.yml or gomathml.json)")
	cmd.MarkFlagsMutuallyExclusive("user", "output")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()
	logger.SetOutput(cmd.ErrOrStderr())

	// Validate format
	if flags.format != "yaml" && flags.format != formatJSON {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid format %q: must be yaml or json", flags.format))
	}

	outputPath, err := initOutputPath(flags)
	if err != nil {
		return err
	}

	// Make path absolute
	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return withExitCode(ExitInvalidUsage,
				fmt.Errorf("file %q already exists; use --force to overwrite", outputPath))
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	opts := config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	}
	if flags.full {
		opts.Entities = knownEntities(symbol.Default())
	}

	content, err := config.GenerateTemplate(opts)
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if flags.user {
		if err := os.MkdirAll(filepath.Dir(absPath), configDirPermissions); err != nil {
			return withExitCode(ExitIOError, fmt.Errorf("create config directory: %w", err))
		}
	}
	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("write file: %w", err))
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("customize your configuration by editing the file")
	logger.Info("run 'gomathml symbols' to see the built-in symbol commands")

	return nil
}

func initOutputPath(flags *initFlags) (string, error) {
	switch {
	case flags.output != "":
		return flags.output, nil
	case flags.user:
		path, err := configloader.UserConfigPath()
		if err != nil {
			return "", withExitCode(ExitIOError, fmt.Errorf("locate user config: %w", err))
		}
		return path, nil
	case flags.format == formatJSON:
		return "gomathml.json", nil
	default:
		return ".gomathml.yml", nil
	}
}

// knownEntities returns the sorted entity names used by the symbol table.
func knownEntities(table *symbol.Table) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, name := range table.Names() {
		entry, _ := table.Lookup(name)
		if entry.Payload.Kind != symbol.PayloadEntity {
			continue
		}
		if _, ok := seen[entry.Payload.Text]; ok {
			continue
		}
		seen[entry.Payload.Text] = struct{}{}
		names = append(names, entry.Payload.Text)
	}
	slices.Sort(names)
	return names
}
