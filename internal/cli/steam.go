package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newSteamProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steam-profile <steam-id>",
		Short: "Look up a Steam profile",
		Long:  "Resolve any Steam ID format (STEAM_X:Y:Z, [U:1:N] or 64-bit) to its public profile.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/steam-profile?" + url.Values{"steamid": {args[0]}}.Encode()

			var result SteamProfile
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}
