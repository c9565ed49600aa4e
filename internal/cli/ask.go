package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/huddle-ai/huddle/internal/domain"
	"github.com/huddle-ai/huddle/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the assistant one question",
		Long:  "Classify the question, gather league context and print the answer with any start/sit recommendations.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}

	cmd.Flags().StringP("league", "l", "", "Sleeper league id")
	cmd.Flags().StringP("user", "u", "", "Sleeper user id")

	RootCmd.AddCommand(cmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	leagueID, _ := cmd.Flags().GetString("league")
	userID, _ := cmd.Flags().GetString("user")

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	resp, err := a.analysis.ProcessUserQuery(cmd.Context(), service.ChatInput{
		Message:  strings.Join(args, " "),
		LeagueID: leagueID,
		UserID:   userID,
	})
	if err != nil {
		return err
	}

	printAnswer(cmd.OutOrStdout(), resp)
	return nil
}

func printAnswer(w io.Writer, resp *domain.AnalysisResponse) {
	fmt.Fprintln(w, resp.Message)
	if len(resp.Recommendations) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recommendations:")
	for _, r := range resp.Recommendations {
		fmt.Fprintf(w, "  %-5s %s (%s confidence)\n", strings.ToUpper(string(r.Type)), r.Player, r.Confidence)
	}
}
