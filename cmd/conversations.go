package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/extractify/internal/store"
)

var conversationsLimit int

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "Manage stored conversations",
}

var conversationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		list, err := env.Store.ListConversations(ctx, store.ListFilter{Limit: conversationsLimit})
		if err != nil {
			return err
		}

		for _, sc := range list {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
				sc.ID, sc.CreatedAt.Format("2006-01-02 15:04"), sc.Title)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d conversation(s)\n", len(list))
		return nil
	},
}

var conversationsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one stored conversation with its extracted fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		sc, err := env.Store.GetConversation(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(sc)
	},
}

var conversationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Store.DeleteConversation(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

func init() {
	conversationsListCmd.Flags().IntVar(&conversationsLimit, "limit", 50, "maximum conversations to list")
	conversationsCmd.AddCommand(conversationsListCmd, conversationsShowCmd, conversationsDeleteCmd)
	rootCmd.AddCommand(conversationsCmd)
}
