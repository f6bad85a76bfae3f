// -- cmd/exif.go --
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shadowglass/inquest/internal/imagemeta"
	"github.com/shadowglass/inquest/internal/observability"
)

// newExifCmd creates and configures the `exif` command.
func newExifCmd() *cobra.Command {
	exifCmd := &cobra.Command{
		Use:   "exif [image-url]",
		Short: "Extracts EXIF metadata from a remote image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			inspector := imagemeta.NewInspector(appCfg.ImageMeta, logger)
			meta, err := inspector.Inspect(ctx, args[0])
			if err != nil {
				fmt.Println(imagemeta.RenderError(err))
				return err
			}

			fmt.Println(imagemeta.Render(meta))
			return nil
		},
	}
	return exifCmd
}
