package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"receipt-processor/internal/receipt"
)

func newPointsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "points <receipt.json>",
		Short: "Score a receipt file without running the server",
		Long:  "Reads a receipt in the API's JSON form (\"-\" for stdin), validates it and prints its points by rule.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := readReceipt(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if err := receipt.Validate(r); err != nil {
				return err
			}
			rules, err := receipt.Breakdown(r)
			if err != nil {
				return err
			}

			total := 0
			for _, rule := range rules {
				total += rule.Points
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Points int                  `json:"points"`
					Rules  []receipt.RuleResult `json:"rules"`
				}{total, rules})
			}
			for _, rule := range rules {
				fmt.Fprintf(out, "%-20s %4d\n", rule.Rule, rule.Points)
			}
			fmt.Fprintf(out, "%-20s %4d\n", "total", total)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the breakdown as JSON")
	return cmd
}

func readReceipt(stdin io.Reader, path string) (receipt.Receipt, error) {
	var r receipt.Receipt

	src := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return r, fmt.Errorf("open receipt: %w", err)
		}
		defer f.Close()
		src = f
	}

	if err := json.NewDecoder(src).Decode(&r); err != nil {
		return r, fmt.Errorf("decode receipt %s: %w", path, err)
	}
	return r, nil
}
