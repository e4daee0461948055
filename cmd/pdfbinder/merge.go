// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfbinder/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [files...]",
	Short: "Merge PDF documents into one",
	Long: `Merge appends every page of each PDF, in the order given, to a single
document. Pages of one source stay contiguous and keep their original order.

The result is named merged_documents.pdf unless --output says otherwise.`,
	Example: `  pdfbinder merge intro.pdf chapter-*.pdf appendix.pdf
  pdfbinder merge --manifest report.yaml --save-to-dir`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, args, types.RunMerge)
	},
}

func init() {
	addRunFlags(mergeCmd)
	rootCmd.AddCommand(mergeCmd)
}
