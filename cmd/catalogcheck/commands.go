package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"seasonal_food_bot/internal/domain/recipe"
	"seasonal_food_bot/internal/infra/catalog"
)

var errInvalidData = errors.New("reference data failed validation")

func newRootCmd(out io.Writer) *cobra.Command {
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	rootCmd := &cobra.Command{
		Use:           "catalogcheck",
		Short:         "Check the reference data files of the seasonal food bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", dataDir, "directory holding the reference JSON files")

	writeJSON := func(v any) error {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Parse every data file and report the first syntax error of each",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := catalog.Validate(cmd.Context(), dataDir)
			if err := writeJSON(reports); err != nil {
				return err
			}
			for _, r := range reports {
				if !r.OK {
					return errInvalidData
				}
			}
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "mapping",
		Short: "Cross-check dish names, the dish mapping and the recipe list",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := catalog.ReadAll(cmd.Context(), dataDir)
			if err != nil {
				return fmt.Errorf("%w: %w", errInvalidData, err)
			}
			return writeJSON(recipe.CheckMapping(snapshot.Recipes, snapshot.Mapping, snapshot.IngredientDishes(), snapshot.HolidayDishes()))
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "duplicates",
		Short: "List recipe ids reached from more than one dish name",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := catalog.ReadAll(cmd.Context(), dataDir)
			if err != nil {
				return fmt.Errorf("%w: %w", errInvalidData, err)
			}
			return writeJSON(recipe.Duplicates(snapshot.Mapping))
		},
	})

	return rootCmd
}
