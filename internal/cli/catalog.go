package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "catalog [item-id]",
		Short: "List catalog items, or show one item",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output(cmd)

			if len(args) == 1 {
				var item CatalogItem
				if err := client.Get(cmd.Context(), "/api/v1/catalog/"+url.PathEscape(args[0]), &item); err != nil {
					return err
				}
				out.Print(item)
				return nil
			}

			path := "/api/v1/catalog"
			if category != "" {
				path += "?" + url.Values{"category": {category}}.Encode()
			}

			var result Catalog
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category: weapons, resources, vip")

	return cmd
}
