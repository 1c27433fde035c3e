package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPathCmd inspects and moves the reading path stored on this machine.
func NewPathCmd(configPath, device *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show or change the guided reading path",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active path and cursor",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openLocalService(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer svc.Close()
			state, ok := svc.Path(cmd.Context(), *device)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no active path")
				return nil
			}
			printPath(cmd.OutOrStdout(), state)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the path and cached quiz result",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openLocalService(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer svc.Close()
			if err := svc.ClearPath(cmd.Context(), *device); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "path cleared")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "visit <section-id>",
		Short: "Mark a section visited; the cursor moves only to the next section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openLocalService(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer svc.Close()
			state, advanced, err := svc.VisitSection(cmd.Context(), *device, args[0])
			if err != nil {
				return err
			}
			if state.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "no active path")
				return nil
			}
			if !advanced {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not the next section; cursor unchanged\n", args[0])
			}
			printPath(cmd.OutOrStdout(), state)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "select <archetype-id>",
		Short: "Start the path of an archetype without taking the quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openLocalService(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer svc.Close()
			state, err := svc.SelectProfile(cmd.Context(), *device, args[0])
			if err != nil {
				return err
			}
			printPath(cmd.OutOrStdout(), state)
			return nil
		},
	})

	return cmd
}
