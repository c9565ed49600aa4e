package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	players := &cobra.Command{
		Use:   "players",
		Short: "Player directory commands",
	}

	players.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Snapshot the Sleeper player directory into the local database",
		Args:  cobra.NoArgs,
		RunE:  runPlayersSync,
	})

	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the live player directory by name",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPlayersSearch,
	}
	search.Flags().IntP("limit", "n", 10, "Max results")
	players.AddCommand(search)

	list := &cobra.Command{
		Use:   "list",
		Short: "List active players from the local snapshot",
		Args:  cobra.NoArgs,
		RunE:  runPlayersList,
	}
	list.Flags().StringP("position", "p", "", "Position filter, e.g. WR")
	list.Flags().IntP("limit", "n", 25, "Max results")
	players.AddCommand(list)

	players.AddCommand(&cobra.Command{
		Use:   "show [player-id]",
		Short: "Show one player from the local snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlayersShow,
	})

	RootCmd.AddCommand(players)
}

func runPlayersSync(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.ingest.SyncPlayers(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "synced %d players in %dms\n", result.Synced, result.DurationMS)
	return nil
}

func runPlayersSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	players, err := a.league.SearchPlayers(cmd.Context(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}
	return printJSON(cmd, players)
}

func runPlayersList(cmd *cobra.Command, _ []string) error {
	position, _ := cmd.Flags().GetString("position")
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	players, err := a.players.ListByPosition(strings.ToUpper(position), limit)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "no players in snapshot; run `huddle players sync` first")
	}
	return printJSON(cmd, players)
}

func runPlayersShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.players.Get(args[0])
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("player %s not in snapshot", args[0])
	}
	return printJSON(cmd, p)
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
