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
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/bedtale/internal/store"
)

var historyDBPath string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the story run history",
	Long:  `List, inspect, and clear the SQLite story run history.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recorded story runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(historyDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("No recorded story runs.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCHARACTER\tSETTING\tSAFE\tSCORE\tMODEL\tCREATED\tSTORY")
		for _, r := range runs {
			safe := "?"
			if r.SafetyOK != nil {
				safe = fmt.Sprintf("%v", *r.SafetyOK)
			}
			score := "-"
			if r.QualityScore != nil {
				score = fmt.Sprintf("%d", *r.QualityScore)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Request.CharacterName, r.Request.Setting,
				safe, score, r.Model,
				r.CreatedAt.Format("2006-01-02 15:04"),
				snippet(r.RefinedStory, 40))
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one story run in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(historyDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		r, err := db.GetRun(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:      %s\n", r.ID)
		fmt.Printf("Created: %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Model:   %s\n", r.Model)
		fmt.Printf("Request: character=%q length=%q setting=%q tone=%q additional=%q\n",
			r.Request.CharacterName, r.Request.Length, r.Request.Setting,
			r.Request.Tone, r.Request.Additional)

		fmt.Println("\n--- Draft story ---")
		fmt.Println(r.DraftStory)

		fmt.Println("\n--- Judge assessment ---")
		if r.AssessmentRaw != "" {
			fmt.Println(r.AssessmentRaw)
		} else {
			if r.SafetyOK != nil {
				fmt.Printf("Safety OK: %v\n", *r.SafetyOK)
			}
			for _, issue := range r.SafetyIssues {
				fmt.Printf("- %s\n", issue)
			}
			if r.QualityScore != nil {
				fmt.Printf("Quality score: %d\n", *r.QualityScore)
			}
			if r.Justification != "" {
				fmt.Printf("Justification: %s\n", r.Justification)
			}
			for _, s := range r.Suggestions {
				fmt.Printf("- %s\n", s)
			}
		}

		fmt.Println("\n--- Refined story ---")
		fmt.Println(r.RefinedStory)
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show run history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(historyDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total runs:             %d\n", stats.TotalRuns)
		fmt.Printf("Structured assessments: %d\n", stats.StructuredRuns)
		fmt.Printf("Judged safe:            %d\n", stats.SafeRuns)
		fmt.Printf("Average quality score:  %.1f\n", stats.AvgQualityScore)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a story run by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(historyDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		if err := db.DeleteRun(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}
		fmt.Printf("Deleted run: %s\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded story runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(historyDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		n, err := db.ClearRuns(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Printf("Cleared %d runs from history.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.PersistentFlags().StringVar(&historyDBPath, "db", "./data/bedtale.db", "Database path")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}
