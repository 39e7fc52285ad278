package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stlref/stlref/render"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog as a static HTML site",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog()
		if err != nil {
			return err
		}

		dir := exportDir
		if dir == "" {
			dir = cfg.Export.Dir
		}
		if err := render.New().WriteSite(c, dir); err != nil {
			return err
		}
		fmt.Printf("wrote %d topic pages to %s\n", len(c.Topics()), dir)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "", "output directory (default from config)")
}
