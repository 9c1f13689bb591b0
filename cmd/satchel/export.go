// Export command writes the notebook as a static HTML site.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-tools/satchel/internal/export"
)

var exportTemplate string

var exportCmd = &cobra.Command{
	Use:   "export <outdir>",
	Short: "Export the notebook as static HTML",
	Long: `Export renders every page to an HTML file under the output
directory, mirroring the namespace hierarchy, plus an index.html listing
all pages. Links between pages become relative hrefs so the result works
from the filesystem or any static host.

Example:
  satchel export ./site
  satchel export ./site --template custom.html`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir := args[0]

		backend := mustAttach("export")
		defer backend.Detach()

		exporter, err := export.New(backend, exportTemplate)
		if err != nil {
			fail(exitUserError, "export", err)
		}

		if err := exporter.Export(outDir); err != nil {
			fail(exitSysError, "export", err)
		}

		fmt.Println("Exported to", outDir)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportTemplate, "template", "", "custom HTML template file")
}
