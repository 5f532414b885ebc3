package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func tablesCommand() *cobra.Command {
	var tablesPath string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the active reference tables as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(tablesPath)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(engine.Tables()); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVar(&tablesPath, "tables", "", "Path to reference tables YAML")

	return cmd
}
