package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/EPronovost/eincheck/pkg/cache"
	"github.com/EPronovost/eincheck/pkg/shape"
	"github.com/EPronovost/eincheck/pkg/spec"
	"github.com/EPronovost/eincheck/pkg/util"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [flags] spec shape [spec shape...]",
	Short: "Check shapes against shape specifications.",
	Long: `Check one or more shapes against shape specifications.
	Shapes are comma-separated dimension sizes, with "_" for an unknown size.
	Specs use the einsum-style grammar, e.g. "batch t (2*i) ...".
	Variables may be seeded with --bind, e.g. --bind i=3 --bind batch=8,2.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 || len(args)%2 != 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if getFlag(cmd, "debug") {
			log.SetLevel(log.DebugLevel)
		}
		// Assemble arguments
		arguments := make([]shape.Argument, len(args)/2)

		for i := range arguments {
			parsed, err := cache.Parse(args[2*i])
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}

			s, err := parseShape(args[2*i+1])
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}

			arguments[i] = shape.Argument{
				Name:  fmt.Sprintf("arg%d", i),
				Shape: s,
				Spec:  parsed,
			}
		}
		// Assemble seed bindings
		seeds := make(map[string]spec.Value)

		for _, b := range getStringArray(cmd, "bind") {
			name, value, err := parseBinding(b)
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}

			seeds[name] = value
		}
		// Go!
		env, err := shape.Resolve(arguments, seeds)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		printBindings(env)
	},
}

// printBindings reports the resolved variables as an aligned table, capped
// to the width of the terminal (when attached to one).
func printBindings(env *shape.Bindings) {
	names := env.Names()
	if len(names) == 0 {
		fmt.Println("ok")
		return
	}
	//
	table := util.NewTablePrinter(2, uint(len(names)))

	for i, name := range names {
		value, _ := env.Lookup(name)
		table.SetRow(uint(i), name, value.String())
	}
	//
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 2 {
		table.SetMaxWidth(uint(width) - 2)
	}

	table.Print()
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("debug", false, "enable debug logging")
	checkCmd.Flags().StringArray("bind", nil, "seed a variable, e.g. i=3 or batch=8,2")
}
