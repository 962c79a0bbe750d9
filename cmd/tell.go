/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

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
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/bedtale/internal"
	"github.com/valpere/bedtale/internal/judge"
	"github.com/valpere/bedtale/internal/llm"
	"github.com/valpere/bedtale/internal/pipeline"
	"github.com/valpere/bedtale/internal/refiner"
	"github.com/valpere/bedtale/internal/screen"
	"github.com/valpere/bedtale/internal/store"
	"github.com/valpere/bedtale/internal/storyteller"
)

var (
	characterName string
	storyLength   string
	storySetting  string
	storyTone     string
	storyNotes    string
	interactive   bool

	apiKey  string
	model   string
	baseURL string
	verbose bool

	dbPath    string
	noHistory bool
)

var tellCmd = &cobra.Command{
	Use:   "tell",
	Short: "Generate, judge, and refine a bedtime story",
	Long: `Generate a children's bedtime story, evaluate it with a second model
call acting as a safety and quality judge, and print a refined revision.

The run is strictly sequential: prompt assembly, generation, judging,
refinement. By default only the refined story is printed; --verbose also
surfaces the assembled prompt, the draft story, and the judge assessment.

The API key resolves from --api-key, then the OPENAI_API_KEY environment
variable. Without a key the run aborts before any request is made.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := internal.StoryRequest{
			CharacterName: characterName,
			Length:        storyLength,
			Setting:       storySetting,
			Tone:          storyTone,
			Additional:    storyNotes,
		}

		if interactive {
			if err := collectRequest(&req, cmd.InOrStdin(), os.Stderr); err != nil {
				return err
			}
		}

		for _, f := range screen.New().Check(req) {
			fmt.Fprintf(os.Stderr, "Warning: %s contains flagged term %q; the story will stay gentle regardless\n", f.Field, f.Term)
		}

		client := llm.New(llm.Config{
			APIKey:  viper.GetString("api-key"),
			BaseURL: viper.GetString("base-url"),
			Model:   viper.GetString("model"),
		})

		var debug io.Writer
		if verbose {
			debug = os.Stderr
		}

		pl := pipeline.New(
			storyteller.NewLLMStoryteller(client),
			judge.NewLLMJudge(client, debug),
			refiner.NewLLMRefiner(client),
			pipeline.Config{Debug: debug},
		)

		ctx := context.Background()

		result, err := pl.Run(ctx, req)
		if err != nil {
			return err
		}

		if !noHistory && dbPath != "" {
			saveRun(ctx, result, client.Model())
		}

		if verbose {
			fmt.Println("--- Refined story ---")
		}
		fmt.Println(result.RefinedStory)
		return nil
	},
}

// saveRun records the completed run in the history database. History is a
// convenience; failures warn and never fail a run that already produced a
// story.
func saveRun(ctx context.Context, result *pipeline.Result, modelName string) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create history directory: %v\n", err)
		return
	}

	db, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to open history database: %v\n", err)
		return
	}
	defer db.Close()

	run := internal.StoryRun{
		ID:                uuid.New().String(),
		Request:           result.Request,
		StorytellerPrompt: result.StorytellerPrompt,
		DraftStory:        result.DraftStory,
		RefinedStory:      result.RefinedStory,
		Model:             modelName,
		Timestamp:         time.Now(),
	}

	if err := db.SaveRun(ctx, run, result.Assessment); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save run history: %v\n", err)
	}
}

func init() {
	rootCmd.AddCommand(tellCmd)

	tellCmd.Flags().StringVar(&characterName, "name", "", "Main character name")
	tellCmd.Flags().StringVar(&storyLength, "length", "", "Desired story length (e.g. 'short')")
	tellCmd.Flags().StringVar(&storySetting, "setting", "", "Story setting (e.g. 'enchanted forest')")
	tellCmd.Flags().StringVar(&storyTone, "tone", "", "Story tone (e.g. 'calm and cozy')")
	tellCmd.Flags().StringVar(&storyNotes, "notes", "", "Additional free-text instructions")
	tellCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for unset story fields on the terminal")

	tellCmd.Flags().StringVarP(&apiKey, "api-key", "k", "", "OpenAI API key (overrides OPENAI_API_KEY)")
	tellCmd.Flags().StringVar(&model, "model", llm.DefaultModel, "Model name")
	tellCmd.Flags().StringVar(&baseURL, "base-url", "", "OpenAI-compatible endpoint base URL")
	tellCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print intermediate prompt, draft story, and assessment")

	tellCmd.Flags().StringVar(&dbPath, "db", "./data/bedtale.db", "Database path for run history")
	tellCmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in the history database")

	_ = viper.BindPFlag("api-key", tellCmd.Flags().Lookup("api-key"))
	_ = viper.BindPFlag("model", tellCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("base-url", tellCmd.Flags().Lookup("base-url"))
}
