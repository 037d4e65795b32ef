package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/go-faker-file/internal/catalog"
	"github.com/nerdneilsfield/go-faker-file/internal/config"
)

var (
	recipeCount    int
	recipeValidate bool
)

// NewRecipeCommand 创建 recipe 命令
func NewRecipeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe <file>",
		Short: "Generate files described by a YAML or JSON recipe",
		Long: `Generate files described by a YAML or JSON recipe.

A recipe names a provider, its options and template, and for containers the
inner recipes, nested to any depth:

  count: 3
  provider: zip
  options: {count: 4, directory: docs}
  inner:
    - provider: docx
      template:
        - modifier: heading
          params: {level: 1}
        - modifier: paragraph
    - provider: tar
      options: {compression: gz}
      inner:
        - provider: txt`,
		Args: cobra.ExactArgs(1),
		RunE: runRecipe,
	}
	cmd.Flags().IntVarP(&recipeCount, "count", "n", 0, "Override the recipe count")
	cmd.Flags().BoolVar(&recipeValidate, "validate", false, "Only validate the recipe")
	return cmd
}

func runRecipe(cmd *cobra.Command, args []string) error {
	rf, err := config.LoadRecipe(args[0])
	if err != nil {
		return err
	}

	fn, err := catalog.Build(rf.Recipe)
	if err != nil {
		if _, lookupErr := catalog.Get(rf.Provider); lookupErr != nil {
			return unknownProviderError(rf.Provider, lookupErr)
		}
		return fmt.Errorf("invalid recipe %s: %w", args[0], err)
	}
	if recipeValidate {
		printSuccess(cmd.OutOrStdout(), "recipe %s is valid", args[0])
		return nil
	}

	count := rf.Count
	if cmd.Flags().Changed("count") {
		count = recipeCount
	}
	if count < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close(context.WithoutCancel(cmd.Context()))

	files, err := runN(cmd, s, rf.Provider, count, fn)
	if err != nil {
		return err
	}
	renderFiles(cmd.OutOrStdout(), files)
	printSuccess(cmd.OutOrStdout(), "generated %d file(s) from %s", len(files), args[0])
	return nil
}
