// ABOUTME: The version command
// ABOUTME: Prints the build version
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanxi-tools/lanxi-go/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lanxictl version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s (%s)\n", version.Product, version.Version, version.Manufacturer)
	},
}
