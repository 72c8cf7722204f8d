package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/jurisflow/internal/reference"
)

// tablesCmd prints the reference tables in effect
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the reference tables",
	Long: `Print the minimum-wage and INSS-ceiling periods, vocabularies and
keyword flags in use, as YAML. The output is a valid --tables file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		tables := reference.Default()
		if cfg.Engine.TablesPath != "" {
			if tables, err = reference.Load(cfg.Engine.TablesPath); err != nil {
				return err
			}
		}

		data, err := yaml.Marshal(tables.File())
		if err != nil {
			return fmt.Errorf("encode tables: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
