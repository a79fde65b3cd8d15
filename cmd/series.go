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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xoviat/libgen/lib"
)

var (
	manufacturer string
	decades      []float64
	storeSeries  bool
)

// seriesCmd represents the series command
var seriesCmd = &cobra.Command{
	Use:   "series <E-series> <package>",
	Short: "Generate a resistor value series.",
	Long: `Generate one resistor per value of an E-series for a chip package.

	Tolerance follows the series and power follows the package. With a
	manufacturer, part numbers and distributor links are filled in.

	Example:
		- libgen series E96 0603 -m Vishay            : R0603_1.00 to R0603_976K
		- libgen series E24 0402 --decade 1000        : 1.0K to 9.1K only
		- libgen series E12 0805 -m Yageo --store     : keep them in the store
	`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		g, err := newGenerator()
		if err != nil {
			fmt.Printf("failed to create generator: %s\n", err)
			return
		}

		components, err := lib.ResistorSeries(g.Registry, args[0], args[1], decades, manufacturer)
		if err != nil {
			fmt.Printf("failed to build series: %s\n", err)
			return
		}

		if storeSeries {
			store, err := openStore(g)
			if err != nil {
				fmt.Printf("failed to open store: %s\n", err)
				return
			}
			defer store.Close()

			if err := store.PutAll(cmd.Context(), components); err != nil {
				fmt.Printf("failed to store series: %s\n", err)
				return
			}
			fmt.Printf("stored %d resistors\n", len(components))
			return
		}

		name := libraryName
		if name == "" {
			name = "R_" + args[0] + "_" + args[1]
		}
		cat := lib.NewCatalog(name)
		for _, c := range components {
			if err := cat.Add(c); err != nil {
				fmt.Printf("failed to add %s: %s\n", c.Name(), err)
				return
			}
		}
		if err := config.ApplyDefaults(cat); err != nil {
			fmt.Printf("failed to apply defaults: %s\n", err)
			return
		}

		if err := writeLibrary(cmd.Context(), g, cat); err != nil {
			fmt.Printf("failed to generate library: %s\n", err)
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(seriesCmd)

	addOutputFlags(seriesCmd)
	seriesCmd.Flags().StringVarP(&manufacturer, "manufacturer", "m", "", "Vishay, Yageo or KOA")
	seriesCmd.Flags().Float64SliceVar(&decades, "decade", nil, "decade multipliers (default 1 to 100000)")
	seriesCmd.Flags().BoolVarP(&storeSeries, "store", "s", false, "put the series in the store instead of writing files")
}
