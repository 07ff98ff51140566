package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the magnate CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("magnate version %s\n", version)
		fmt.Println("A gold trading game on the 2008 market")
		fmt.Println("https://github.com/rustyeddy/magnate")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
