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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xoviat/libgen/lib"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [library]...",
	Short: "Load generated libraries with kicad-cli.",
	Long: `Check that KiCad reads generated libraries.

	Symbol libraries (.kicad_sym) and footprint libraries (.pretty) are
	exported to SVG by the newest installed kicad-cli; anything KiCad cannot
	read fails. Without arguments the configured output is checked.

	Set LIBGEN_KICAD_BIN to the directory of kicad-cli to pick an install.`,
	Run: func(cmd *cobra.Command, args []string) {
		ki, err := lib.NewKicadInterface()
		if err != nil {
			fmt.Printf("failed to find KiCad: %s\n", err)
			return
		}

		app, err := ki.AppVersion(cmd.Context())
		if err != nil {
			fmt.Printf("failed to get KiCad version: %s\n", err)
			return
		}
		fmt.Printf("using KiCad %s from %s\n", app, ki.GetBinPath())

		if want, err := ki.FileVersion(cmd.Context()); err == nil && config.FileVersion() > want {
			fmt.Printf("warning: configured KiCad %s writes files newer than KiCad %s reads\n", config.KiCadVersion, app)
		}

		if len(args) == 0 {
			args = []string{
				filepath.Join(config.Output, config.Library+".kicad_sym"),
				filepath.Join(config.Output, config.FootprintLib+".pretty"),
			}
		}

		failed := false
		for _, path := range args {
			if !lib.Exists(path) {
				fmt.Printf("failed to stat file: %s\n", path)
				failed = true
				continue
			}

			var err error
			if isFootprintLib(path) {
				err = ki.CheckFootprints(cmd.Context(), path)
			} else {
				err = ki.CheckSymbols(cmd.Context(), path)
			}
			if err != nil {
				fmt.Printf("failed to load %s: %s\n", path, err)
				failed = true
				continue
			}
			fmt.Println("ok " + path)
		}

		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func isFootprintLib(path string) bool {
	if strings.HasSuffix(path, ".pretty") {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
