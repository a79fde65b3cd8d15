/*
Copyright © 2020 Mars Galactic <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/xoviat/libgen/lib"
	"go.uber.org/zap"
)

var (
	cfgFile string
	config  *lib.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "libgen",
	Short: "Generate KiCad and Eagle component libraries from part attributes.",
	Long: `libgen turns attribute sets (role, package, pin count, value, part
numbers) into schematic symbols and PCB footprints.

Examples:
	libgen generate parts.yaml            # write parts.kicad_sym and footprints
	libgen series E96 0603 -m Vishay      # a resistor series for one package
	libgen import parts.xlsx              # keep parts in the local store
	libgen find "+Package:0603 1.33K"     # search the store`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := lib.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		config = c
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./libgen.yaml)")
}

/*
	newGenerator builds the generator of the loaded configuration. Every
	command that lays out parts goes through here.
*/
func newGenerator() (*lib.Generator, error) {
	g, err := config.NewGenerator()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(g.Logger)
	return g, nil
}

func openStore(g *lib.Generator) (*lib.Store, error) {
	return lib.OpenStore(config.Store, g.Registry)
}

func printFailures(failures []*lib.EntityError) {
	for _, f := range failures {
		fmt.Printf("skipped %s: %s\n", f.Symbol, f.Err)
	}
}
