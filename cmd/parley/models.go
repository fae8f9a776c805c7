package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calebmweir/parley/client"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listModels(cmd.Context())
	},
}

func listModels(ctx context.Context) error {
	c := client.New()

	page, err := c.Models.List(ctx, client.ListParams{})
	for page != nil && err == nil {
		for _, m := range page.Data {
			fmt.Printf("%-40s %s\n", m.ID, m.DisplayName)
		}
		page, err = page.NextPage(ctx)
	}
	return err
}
