package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	addCmd := &cobra.Command{
		Use:   "add <email> <password>",
		Short: "Register a new user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.CreateUser(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			slog.Info("user created", "email", args[0])
			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset-password <email> <new-password>",
		Short: "Reset a user's password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.UpdatePassword(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			slog.Info("password updated", "email", args[0])
			return nil
		},
	}

	cmd.AddCommand(addCmd)
	cmd.AddCommand(resetCmd)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spendcast %s\n", version)
		},
	}
}
