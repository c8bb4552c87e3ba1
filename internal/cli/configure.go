package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/harun/rcrm/internal/config"
	"github.com/harun/rcrm/internal/observability"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Run interactive configuration wizard",
	Long: `Run an interactive configuration wizard to set up rcrm.
The wizard asks for the log level, HTTP server address and tool catalog, then
writes the result to the config file.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader(cfgFile)

	current, err := loader.Load()
	if err != nil {
		// a broken file is replaced rather than edited
		current = config.DefaultConfig()
	}

	cfg, err := config.NewWizard(cmd.InOrStdin(), cmd.OutOrStdout()).Run(current)
	if err != nil {
		return errors.Wrap(err, "configuration failed")
	}

	if err := loader.Save(cfg); err != nil {
		return errors.Wrap(err, "failed to save configuration")
	}

	if cfg.Audit.File != "" {
		audit, err := observability.OpenAuditLogger(cfg.Audit.File)
		if err != nil {
			return err
		}
		audit.RecordConfig(cmd.Context(), "configure", loader.GetConfigPath())
		_ = audit.Close()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nConfiguration saved to: %s\n", loader.GetConfigPath())
	fmt.Fprintln(cmd.OutOrStdout(), "You can now start the API with: rcrm serve")

	return nil
}
