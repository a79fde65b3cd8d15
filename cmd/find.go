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

var limit int

// findCmd represents the find command
var findCmd = &cobra.Command{
	Use:   "find <query>...",
	Short: "Search the store.",
	Long: `Search stored parts by name, value, package, description and part numbers.

	Queries use the bleve query string syntax:
		- libgen find 1.33K
		- libgen find "+Package:0603 +Manufacturer:Vishay"
		- libgen find CRCW0603*
	`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g, err := newGenerator()
		if err != nil {
			fmt.Printf("failed to create generator: %s\n", err)
			return
		}

		store, err := openStore(g)
		if err != nil {
			fmt.Printf("failed to open store: %s\n", err)
			return
		}
		defer store.Close()

		names, err := store.Find(strings.Join(args, " "), limit)
		if err != nil {
			fmt.Printf("failed to search store: %s\n", err)
			return
		}

		for _, name := range names {
			c, err := store.Get(name)
			if err != nil {
				fmt.Printf("failed to get %s: %s\n", name, err)
				continue
			}
			fmt.Printf("%-24s %-12s %s\n", c.Name(), c.Package(), lib.Description(c))
		}
	},
}

func init() {
	rootCmd.AddCommand(findCmd)

	findCmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of results")
}
