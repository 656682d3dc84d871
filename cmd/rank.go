package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dosada05/focus-tools/brackets"
	"github.com/Dosada05/focus-tools/models"
	"github.com/Dosada05/focus-tools/utils"
)

var rankFile string

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Prioritize a task list interactively",
	Long: `Reads a task list (one task per line, markdown bullets and numbering are
stripped) and asks you to pick the more important task of each pair until
the Swiss tournament is over, then prints the ranking.

Without --file the list is read from stdin up to the first empty line.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(cmd.InOrStdin())

		var text string
		if rankFile != "" {
			b, err := os.ReadFile(rankFile)
			if err != nil {
				return fmt.Errorf("read task list: %w", err)
			}
			text = string(b)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Enter your tasks, one per line. Finish with an empty line:")
			var err error
			if text, err = readList(in); err != nil {
				return err
			}
		}

		return runRank(in, cmd.OutOrStdout(), text, time.Now)
	},
}

func init() {
	rankCmd.Flags().StringVarP(&rankFile, "file", "f", "", "read the task list from this file")
}

var errInputEnded = errors.New("input ended before the ranking was finished")

// readList reads lines until the first empty line that follows a task.
func readList(in *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := in.ReadString('\n')
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		} else if len(lines) > 0 {
			return strings.Join(lines, "\n"), nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return strings.Join(lines, "\n"), nil
			}
			return "", fmt.Errorf("read task list: %w", err)
		}
	}
}

func runRank(in *bufio.Reader, out io.Writer, text string, now func() time.Time) error {
	started := now()

	m := brackets.NewManager(brackets.NewSwissGenerator())
	if err := m.StartFromText(text); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d tasks, %d rounds.\n", len(m.Entrants()), m.MaxRounds())

	comparisons := 0
	for !m.IsComplete() {
		fmt.Fprintf(out, "\nRound %d of %d\n", m.CurrentRound(), m.MaxRounds())

		for _, match := range m.CurrentMatches() {
			if match.IsBye {
				fmt.Fprintf(out, "%s gets a bye.\n", byeWinnerName(match))
				continue
			}

			winnerID, err := askWinner(in, out, match)
			if err != nil {
				return err
			}
			if err := m.RecordResult(match.ID, winnerID); err != nil {
				return err
			}
			comparisons++
		}

		if err := m.AdvanceRound(); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "\nYour priorities:")
	for _, s := range m.FinalRankings() {
		fmt.Fprintf(out, "%2d. %s (%d-%d)\n", s.Rank, s.Name, s.Wins, s.Losses)
	}

	seconds := int(now().Sub(started).Round(time.Second) / time.Second)
	fmt.Fprintf(out, "\n%d comparisons in %s.\n", comparisons, utils.FormatHuman(seconds))
	return nil
}

func askWinner(in *bufio.Reader, out io.Writer, match models.MatchView) (string, error) {
	for {
		fmt.Fprintf(out, "Which is more important?\n  1) %s\n  2) %s\n> ", match.SideA.Name, match.SideB.Name)

		line, err := in.ReadString('\n')
		switch strings.TrimSpace(line) {
		case "1":
			return match.SideA.EntrantID, nil
		case "2":
			return match.SideB.EntrantID, nil
		}
		if err != nil {
			return "", errInputEnded
		}
		fmt.Fprintln(out, "Please answer 1 or 2.")
	}
}

func byeWinnerName(match models.MatchView) string {
	if match.SideA.EntrantID == models.ByeEntrantID {
		return match.SideB.Name
	}
	return match.SideA.Name
}
