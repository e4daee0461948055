// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfbinder/pkg/types"
)

var imagesCmd = &cobra.Command{
	Use:   "images [files...]",
	Short: "Convert images into a single PDF, one image per page",
	Long: `Images places each JPEG, PNG or GIF image on its own page, in the order
given, scaled to the page width inside a margin with its aspect ratio kept.
Glob patterns expand in lexical order.

The result is named converted_images.pdf unless --output says otherwise.`,
	Example: `  pdfbinder images scan-*.jpg
  pdfbinder images cover.png body.jpg --dir ./out
  pdfbinder images --manifest album.yaml --skip-invalid`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, args, types.RunImages)
	},
}

func init() {
	addRunFlags(imagesCmd)
	rootCmd.AddCommand(imagesCmd)
}
