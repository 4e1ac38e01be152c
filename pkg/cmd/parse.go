package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/EPronovost/eincheck/pkg/cache"
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse [flags] spec...",
	Short: "Parse shape specifications and print their canonical form.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		for _, arg := range args {
			parsed, err := cache.Parse(arg)
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}

			fmt.Println(parsed)
		}
		//
		if getFlag(cmd, "stats") {
			fmt.Println(cache.Default().Stats())
		}
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Bool("stats", false, "report parse cache statistics")
}
