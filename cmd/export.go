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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xoviat/libgen/lib"
)

var query string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export parts from the store.",
	Long: `Export stored parts as a part list or a library.

	The extension of the file picks what is written:
		- .xlsx      : a part list that import reads back
		- .csv       : an Altium database table
		- .zip       : a bundled library with footprints
		- otherwise  : a library written next to the file

	Example:
		- libgen export parts.xlsx                      : every stored part
		- libgen export r0603.zip -q "+Package:0603"    : the parts a search finds
	`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dst := args[0]

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

		var names []string
		if query != "" {
			if names, err = store.Find(query, 10000); err != nil {
				fmt.Printf("failed to search store: %s\n", err)
				return
			}
			if len(names) == 0 {
				fmt.Println("no parts match " + query)
				return
			}
		}

		ext := strings.ToLower(filepath.Ext(dst))
		name := libraryName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(dst), filepath.Ext(dst))
		}
		cat, err := store.Catalog(name, names...)
		if err != nil {
			fmt.Printf("failed to load parts: %s\n", err)
			return
		}

		switch ext {
		case ".xlsx":
			err = lib.ExportPartList(cat, dst)
		case ".csv":
			var failures []*lib.EntityError
			failures, err = g.WriteDatabaseFile(cmd.Context(), dst, cat, lib.DatabaseOptions{
				Library: config.Library,
				Company: config.Company,
			})
			printFailures(failures)
		case ".zip":
			bundleFile = dst
			err = writeLibrary(cmd.Context(), g, cat)
		default:
			outputDir = filepath.Dir(dst)
			err = writeLibrary(cmd.Context(), g, cat)
		}
		if err != nil {
			fmt.Printf("failed to export %s: %s\n", dst, err)
			return
		}
		fmt.Printf("exported %d parts\n", cat.Len())
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&query, "query", "q", "", "export only parts matching a search")
	exportCmd.Flags().StringVarP(&libraryName, "name", "n", "", "library name (default from the file name)")
}
