package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/purchase"
	"github.com/pkordes/mealmate/internal/service"
)

func newRecipesCommand(ctx *commandContext) *cobra.Command {
	var showIngredients bool

	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List recipes with purchase progress and readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipeRepo, err := ctx.recipeRepo(cmd.Context())
			if err != nil {
				return err
			}
			recipes, err := service.NewRecipeService(recipeRepo, ctx.logger()).List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(recipes) == 0 {
				fmt.Fprintln(out, "No recipes")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Purchased", "Ready"},
				recipeRows(recipes),
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			if showIngredients {
				for _, r := range recipes {
					fmt.Fprintf(out, "\n%s\n", r.Name)
					fmt.Fprintln(out, renderTable(
						[]string{"Ingredient", "Purchased", "Location"},
						ingredientRows(r),
						nil,
					))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showIngredients, "ingredients", "i", false, "Also print each recipe's ingredients")
	return cmd
}

// recipeRows renders one summary row per recipe. Purchased is "n/m" over the
// ingredient list, ignoring stale purchased names.
func recipeRows(recipes []domain.Recipe) [][]string {
	rows := make([][]string, 0, len(recipes))
	for _, r := range recipes {
		state, _ := purchase.Restore(r)
		rows = append(rows, []string{
			r.ID.String(),
			r.Name,
			strconv.Itoa(len(state.PurchasedNames())) + "/" + strconv.Itoa(len(r.Ingredients)),
			yesNo(state.Ready()),
		})
	}
	return rows
}

func ingredientRows(r domain.Recipe) [][]string {
	state, _ := purchase.Restore(r)
	rows := make([][]string, 0, len(r.Ingredients))
	for _, name := range r.Ingredients {
		text, _ := state.CopyLocationText(name)
		rows = append(rows, []string{
			name,
			yesNo(state.IsPurchased(name)),
			text,
		})
	}
	return rows
}
