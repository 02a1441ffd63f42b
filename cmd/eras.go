package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/timebooth/internal/catalog"
)

var erasCmd = &cobra.Command{
	Use:   "eras",
	Short: "List the available destination eras and visual filters",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Eras:")
		for _, era := range catalog.Eras() {
			fmt.Printf("  %-12s %s %s\n", era.ID, era.Icon, era.Label)
		}
		fmt.Println()
		fmt.Println("Filters:")
		for _, filter := range catalog.Filters() {
			fmt.Printf("  %-12s %s\n", filter.ID, filter.Label)
		}
	},
}

func init() {
	rootCmd.AddCommand(erasCmd)
}
