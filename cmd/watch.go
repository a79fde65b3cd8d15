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
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var settle time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <input>...",
	Short: "Regenerate a library whenever its inputs change.",
	Long: `Generate a library like generate does, then keep regenerating it
	each time one of the inputs is written. Stop with Ctrl-C.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		g, err := newGenerator()
		if err != nil {
			fmt.Printf("failed to create generator: %s\n", err)
			return
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			fmt.Printf("failed to create watcher: %s\n", err)
			return
		}
		defer watcher.Close()

		/*
			editors replace files on save, so watch the directories and
			match the inputs by name
		*/
		inputs := map[string]bool{}
		dirs := map[string]bool{}
		for _, path := range args {
			abs, err := filepath.Abs(path)
			if err != nil {
				fmt.Printf("failed to normalize path: %s\n", path)
				return
			}
			inputs[abs] = true
			dirs[filepath.Dir(abs)] = true
		}
		for dir := range dirs {
			if err := watcher.Add(dir); err != nil {
				fmt.Printf("failed to watch %s: %s\n", dir, err)
				return
			}
		}

		regenerate := func() {
			cat, err := loadInputs(ctx, g, args)
			if err != nil {
				zap.L().Error("failed to load parts", zap.Error(err))
				return
			}
			if err := writeLibrary(ctx, g, cat); err != nil {
				zap.L().Error("failed to generate library", zap.Error(err))
			}
		}
		regenerate()

		var timer <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !inputs[event.Name] || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				zap.L().Debug("input changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
				timer = time.After(settle)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				zap.L().Warn("watch error", zap.Error(err))
			case <-timer:
				timer = nil
				regenerate()
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addOutputFlags(watchCmd)
	watchCmd.Flags().DurationVar(&settle, "settle", 200*time.Millisecond, "wait this long after a change before regenerating")
}
