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

	"github.com/spf13/cobra"
	"github.com/xoviat/libgen/lib"
)

var (
	outputDir    string
	bundleFile   string
	databaseFile string
	libraryName  string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <input>...",
	Short: "Generate a symbol library and its footprints.",
	Long: `Generate a symbol library and its footprints from part lists.

	Inputs are read by extension:
		- .yaml/.yml : a parts file with components and resistor series
		- .xlsx      : a part list spreadsheet
		- .csv       : an Altium database table
		- .kicad_sym : a KiCad symbol library written by libgen

	Example:
		- libgen generate parts.yaml                 : write libgen.kicad_sym and libgen.pretty
		- libgen generate parts.yaml -b parts.zip    : zip the library instead
		- libgen generate parts.yaml -d parts.csv    : also write the database table
	`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g, err := newGenerator()
		if err != nil {
			fmt.Printf("failed to create generator: %s\n", err)
			return
		}

		cat, err := loadInputs(cmd.Context(), g, args)
		if err != nil {
			fmt.Printf("failed to load parts: %s\n", err)
			return
		}

		if err := writeLibrary(cmd.Context(), g, cat); err != nil {
			fmt.Printf("failed to generate library: %s\n", err)
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	addOutputFlags(generateCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// generateCmd.PersistentFlags().String("foo", "", "A help for foo")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default from config)")
	cmd.Flags().StringVarP(&bundleFile, "bundle", "b", "", "write a .zip bundle instead of files")
	cmd.Flags().StringVarP(&databaseFile, "database", "d", "", "also write an Altium database table")
	cmd.Flags().StringVarP(&libraryName, "name", "n", "", "library name (default from config)")
}

/*
	loadInputs merges every input into one catalog named after the
	configured library. A single input keeps the name it was read with.
*/
func loadInputs(ctx context.Context, g *lib.Generator, paths []string) (*lib.Catalog, error) {
	var cat *lib.Catalog
	for _, path := range paths {
		part, err := lib.LoadCatalog(ctx, g, path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(paths) == 1 && libraryName == "" {
			cat = part
			break
		}

		if cat == nil {
			name := libraryName
			if name == "" {
				name = config.Library
			}
			cat = lib.NewCatalog(name)
		}
		if err := cat.Merge(part); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := config.ApplyDefaults(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// writeLibrary generates cat and writes it the way the output flags ask.
func writeLibrary(ctx context.Context, g *lib.Generator, cat *lib.Catalog) error {
	out, err := g.Generate(ctx, cat)
	if err != nil {
		return err
	}
	printFailures(out.Library.Failures)
	printFailures(out.Footprints.Failures)

	if bundleFile != "" {
		if err := lib.Bundle(bundleFile, cat.Name(), g.Emitter, out); err != nil {
			return err
		}
		fmt.Printf("wrote %s: %d symbols, %d footprints\n",
			bundleFile, len(out.Library.Emitted), len(out.Footprints.Files))
	} else {
		dir := outputDir
		if dir == "" {
			dir = config.Output
		}
		written, err := lib.WriteOutput(dir, cat.Name(), g.Emitter, out)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Println("wrote " + path)
		}
	}

	if databaseFile == "" {
		return nil
	}
	failures, err := g.WriteDatabaseFile(ctx, databaseFile, cat, lib.DatabaseOptions{
		Library: cat.Name(),
		Company: config.Company,
	})
	if err != nil {
		return err
	}
	printFailures(failures)
	fmt.Println("wrote " + databaseFile)
	return nil
}
