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

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <input>...",
	Short: "Import part lists into the store.",
	Long: `Import part lists into the store.

		- A parts file, in the .yaml format.
		- A part list, in the .xlsx format.
		- An Altium database table, in the .csv format.
		- A KiCad symbol library written by libgen, in the .kicad_sym format.

	Parts already in the store are replaced.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g, err := newGenerator()
		if err != nil {
			fmt.Printf("failed to create generator: %s\n", err)
			return
		}

		store, err := openStore(g)
		if err != nil {
			fmt.Printf("failed to open or create store: %s\n", err)
			return
		}
		defer store.Close()

		/*
			finish an import that was interrupted before indexing
		*/
		if n, err := store.Reindex(); err != nil {
			fmt.Printf("failed to reindex store: %s\n", err)
			return
		} else if n > 0 {
			fmt.Printf("reindexed %d parts\n", n)
		}

		for _, src := range args {
			if !lib.Exists(src) {
				fmt.Printf("failed to stat file: %s\n", src)
				return
			}

			cat, err := lib.LoadCatalog(cmd.Context(), g, src)
			if err != nil {
				fmt.Printf("failed to read %s: %s\n", src, err)
				return
			}

			for _, c := range cat.Components() {
				fmt.Println("importing part: " + c.Name())
			}
			if err := store.PutAll(cmd.Context(), cat.Components()); err != nil {
				fmt.Printf("failed to import %s: %s\n", src, err)
				return
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// importCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// importCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
