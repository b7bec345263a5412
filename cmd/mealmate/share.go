package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/mealmate/internal/app"
	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/message"
	"github.com/pkordes/mealmate/internal/service"
)

func newShareCommand(ctx *commandContext) *cobra.Command {
	var destination string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "share RECIPE_ID...",
		Short: "Send recipe digests to a destination",
		Long: "Compose a digest for each recipe, split it into transport-sized segments\n" +
			"and deliver them in order. Running the command grants send_message.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseRecipeIDs(args)
			if err != nil {
				return err
			}
			if !dryRun && strings.TrimSpace(destination) == "" {
				return errors.New("--to is required unless --dry-run is set")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			recipeRepo, err := ctx.recipeRepo(cmd.Context())
			if err != nil {
				return err
			}
			log := ctx.logger()
			shares := service.NewShareService(recipeRepo, app.NewTransport(cfg, log), log)

			out := cmd.OutOrStdout()
			if dryRun {
				batches, err := shares.Preview(cmd.Context(), ids)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatBatches(batches))
				return nil
			}

			result, err := shares.Start(cmd.Context(), ids, destination,
				[]domain.Capability{domain.CapabilitySendMessage})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Delivered %d segment(s) for %d recipe(s) to %s\n",
				result.Segments(), len(result.Batches), result.Destination)
			return nil
		},
	}

	cmd.Flags().StringVar(&destination, "to", "", "Destination address passed to the messaging transport")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the segments instead of sending them")
	return cmd
}

func parseRecipeIDs(args []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(args))
	for _, a := range args {
		id, err := uuid.Parse(strings.TrimSpace(a))
		if err != nil {
			return nil, fmt.Errorf("invalid recipe id %q: %w", a, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// formatBatches prints each recipe's segments under a heading, numbered as
// they would be delivered.
func formatBatches(batches []message.Batch) string {
	var b strings.Builder
	for i, batch := range batches {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "== %s (%d segment(s))\n", batch.Recipe.Name, len(batch.Segments))
		for j, seg := range batch.Segments {
			fmt.Fprintf(&b, "[%d/%d] %s\n", j+1, len(batch.Segments), seg)
		}
	}
	return b.String()
}
