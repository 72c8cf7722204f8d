package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/reference"
	"github.com/ppiankov/jurisflow/internal/schema"
	"github.com/ppiankov/jurisflow/internal/validate"
)

var checkVariant string

// checkCmd validates an existing record file
var checkCmd = &cobra.Command{
	Use:   "check <record.json>",
	Short: "Validate a record against its variant schema",
	Long: `Check reads a JSON record (written by normalize or by hand) and
reports every schema violation: missing fields, wrong types, terms
outside the vocabularies, negative amounts, malformed dates.

Example:
  jurisflow check registro.json --variant social-security`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := schema.ForVariant(model.Variant(checkVariant))
		if err != nil {
			return err
		}

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

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		rec, err := validate.ParseRecord(s, data)
		if err != nil {
			return err
		}

		err = validate.NewValidator(s, tables).Validate(rec)
		var verr *validate.ViolationError
		if errors.As(err, &verr) {
			for _, v := range verr.Violations {
				fmt.Fprintf(os.Stderr, "✗ %s\n", v)
			}
			return fmt.Errorf("%d violations", len(verr.Violations))
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: valid %s record\n", args[0], s.Variant)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkVariant, "variant", "", "record variant (labor, social-security)")
	_ = checkCmd.MarkFlagRequired("variant")
}
