package cli

import (
	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session commands",
		Long:  "Show the storefront session, log in with a Steam ID, or log out.",
	}

	cmd.AddCommand(newSessionStatusCmd())
	cmd.AddCommand(newSessionLoginCmd())
	cmd.AddCommand(newSessionLogoutCmd())
	cmd.AddCommand(newSessionProfileCmd())

	return cmd
}

func newSessionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session
			if err := client.Get(cmd.Context(), "/api/v1/session", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <steam-id>",
		Short: "Log in with a Steam ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"steam_id": args[0]}

			var result Session
			if err := client.Post(cmd.Context(), "/api/v1/session/login", req, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the saved identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session
			if err := client.Post(cmd.Context(), "/api/v1/session/logout", nil, &result); err != nil {
				return err
			}
			output(cmd).PrintMessage("Logged out")
			return nil
		},
	}
}

func newSessionProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the logged in player's profile and order summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Profile
			if err := client.Get(cmd.Context(), "/api/v1/session/profile", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}
