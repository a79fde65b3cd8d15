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
	"strings"

	"github.com/spf13/cobra"
	"github.com/xoviat/libgen/lib"
)

var showKinds bool

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [role]",
	Short: "Show package families and attribute kinds.",
	Long: `Show the package families a part can use, optionally for one role,
	and with --kinds the attribute kinds parts are described with.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g, err := newGenerator()
		if err != nil {
			fmt.Printf("failed to create generator: %s\n", err)
			return
		}

		fmt.Printf("format:  %s (%s)\n", g.Emitter.Name(), g.Emitter.Extension())
		if k, ok := g.Emitter.(*lib.KiCad); ok {
			fmt.Printf("version: %d, footprints in %s.pretty\n", k.Version(), k.FootprintLib)
		}
		fmt.Println()

		if showKinds {
			for _, kind := range g.Registry.Kinds() {
				shape, _ := g.Registry.Shape(kind)
				fmt.Printf("%-14s %-14s %s\n", kind, g.Registry.Field(kind), shape)
			}
			return
		}

		for _, f := range g.Rules.Families() {
			if len(args) > 0 && !hasRole(f, args[0]) {
				continue
			}
			pins := fmt.Sprintf("%d", f.Pins.Min)
			if f.Pins.Max != f.Pins.Min {
				pins = fmt.Sprintf("%d-%d", f.Pins.Min, f.Pins.Max)
			}
			fmt.Printf("%-20s v%-5s %-14s pins %-8s %s\n",
				f.Name, f.Version, f.Package, pins, strings.Join(f.Roles, ","))
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVarP(&showKinds, "kinds", "k", false, "list attribute kinds instead of families")
}

func hasRole(f *lib.Family, role string) bool {
	for _, r := range f.Roles {
		if r == role {
			return true
		}
	}
	return false
}
