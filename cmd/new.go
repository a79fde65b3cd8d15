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

	"github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"
	"github.com/xoviat/libgen/lib"
)

var (
	from   string
	noEdit bool
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Enter a new part into the store.",
	Long: `Enter a new part attribute by attribute and put it into the store.

	Attribute kinds and their values are suggested while typing. An empty
	kind finishes the part; attributes a symbol still needs are asked for
	before it is stored.

	Example:
		- libgen new U3                           : start from nothing
		- libgen new R0603_1.50K --from R0603_1.00K   : copy a stored part
	`,
	Args: cobra.ExactArgs(1),
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

		var c *lib.Component
		if from != "" {
			var src *lib.Component
			if src, err = store.Get(from); err != nil {
				fmt.Printf("failed to get %s: %s\n", from, err)
				return
			}
			c, err = src.Clone(args[0])
		} else {
			c, err = lib.NewComponent(g.Registry, args[0])
		}
		if err != nil {
			fmt.Printf("failed to create part: %s\n", err)
			return
		}

		if !noEdit {
			editAttributes(g, c)
		}

		/*
			a stored part must at least produce a symbol
		*/
		for _, kind := range c.Missing(lib.ForSymbol) {
			for !c.Has(kind) {
				fmt.Printf("Enter %s for %s\n", kind, c.Name())
				raw := prompt.Input(string(kind)+"> ", valueCompleter(g, c, kind))
				if raw == "" {
					fmt.Println("part not stored")
					return
				}
				if err := c.SetString(kind, raw); err != nil {
					fmt.Println(err.Error())
				}
			}
		}

		if _, err := g.SymbolGeometry(c); err != nil {
			fmt.Printf("failed to lay out %s: %s\n", c.Name(), err)
			return
		}
		if err := store.Put(c); err != nil {
			fmt.Printf("failed to store part: %s\n", err)
			return
		}
		fmt.Printf("stored %s: %s\n", c.Name(), lib.Description(c))
	},
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringVarP(&from, "from", "f", "", "stored part to start from")
	newCmd.Flags().BoolVar(&noEdit, "no-edit", false, "only ask for missing attributes")
}

func editAttributes(g *lib.Generator, c *lib.Component) {
	for {
		for _, a := range c.Attributes() {
			fmt.Printf("  %-14s %s\n", a.Kind, a.Value)
		}

		fmt.Printf("Enter attribute for %s (empty to finish)\n", c.Name())
		kind := lib.Kind(strings.TrimSpace(prompt.Input("kind> ", kindCompleter(g.Registry))))
		if kind == "" {
			return
		}
		if _, ok := g.Registry.Shape(kind); !ok {
			if k, ok := g.Registry.KindForField(string(kind)); ok {
				kind = k
			} else {
				fmt.Printf("unknown attribute kind: %s\n", kind)
				continue
			}
		}

		raw := prompt.Input(string(kind)+"> ", valueCompleter(g, c, kind))
		if raw == "" {
			c.Remove(kind)
			continue
		}
		if err := c.SetString(kind, raw); err != nil {
			fmt.Println(err.Error())
		}
	}
}

func kindCompleter(reg *lib.Registry) prompt.Completer {
	suggestions := []prompt.Suggest{}
	for _, kind := range reg.Kinds() {
		shape, _ := reg.Shape(kind)
		suggestions = append(suggestions, prompt.Suggest{Text: string(kind), Description: shape.String()})
	}

	return func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
	}
}

/*
	valueCompleter suggests enum values, and for packages the names the
	rule table knows for the part's role.
*/
func valueCompleter(g *lib.Generator, c *lib.Component, kind lib.Kind) prompt.Completer {
	suggestions := []prompt.Suggest{}
	if kind == lib.KindPackage {
		for _, pkg := range g.Rules.Packages(c.Role()) {
			suggestions = append(suggestions, prompt.Suggest{Text: pkg})
		}
	} else if shape, ok := g.Registry.Shape(kind); ok {
		for _, v := range shape.Values() {
			suggestions = append(suggestions, prompt.Suggest{Text: v})
		}
	}

	return func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
	}
}
