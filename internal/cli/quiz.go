package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"uap-profile-service/internal/app"
	"uap-profile-service/internal/domain"
)

// NewQuizCmd runs the profile quiz in the terminal.
func NewQuizCmd(configPath, device *string) *cobra.Command {
	return &cobra.Command{
		Use:   "quiz",
		Short: "Take the research-profile quiz and pick a reading path",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openLocalService(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer svc.Close()
			return runQuiz(cmd.Context(), svc.ProfileService, *device, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runQuiz(ctx context.Context, service *app.ProfileService, scope string, in io.Reader, out io.Writer) error {
	lines := bufio.NewScanner(in)
	view, err := service.StartQuiz(ctx, scope)
	if err != nil {
		return err
	}

	for {
		for view.State == app.StateInProgress {
			q := view.Question
			fmt.Fprintf(out, "\nQuestion %d of %d\n%s\n", view.Index+1, view.Total, q.Prompt)
			for i, opt := range q.Options {
				marker := " "
				if view.Answers[q.ID] == opt.Value {
					marker = "*"
				}
				fmt.Fprintf(out, " %s%d) %s\n", marker, i+1, opt.Label)
			}
			fmt.Fprintf(out, "answer [1-%d, b=back, q=quit]: ", len(q.Options))

			if !lines.Scan() {
				service.Abandon(ctx, scope)
				fmt.Fprintln(out, "\nquiz abandoned")
				return lines.Err()
			}
			input := strings.TrimSpace(strings.ToLower(lines.Text()))
			switch input {
			case "b":
				if view, err = service.Back(ctx, scope); err != nil {
					return err
				}
				continue
			case "q":
				service.Abandon(ctx, scope)
				fmt.Fprintln(out, "quiz abandoned")
				return nil
			}
			n, err := strconv.Atoi(input)
			if err != nil || n < 1 || n > len(q.Options) {
				fmt.Fprintln(out, "please pick one of the listed options")
				continue
			}
			if view, _, err = service.Answer(ctx, scope, q.ID, q.Options[n-1].Value); err != nil {
				return err
			}
		}

		if view.Result == nil {
			return nil
		}
		printResult(out, *view.Result)

		fmt.Fprint(out, "start this path? [Y]es, [e]xplore freely, [r]etake: ")
		choice := ""
		if lines.Scan() {
			choice = strings.TrimSpace(strings.ToLower(lines.Text()))
		}
		switch choice {
		case "", "y", "yes":
			state, err := service.StartPath(ctx, scope)
			if err != nil {
				return err
			}
			printPath(out, state)
			return nil
		case "e":
			if err := service.ExploreFreely(ctx, scope); err != nil {
				return err
			}
			fmt.Fprintln(out, "no path set; browse freely")
			return nil
		case "r":
			if view, err = service.Retake(ctx, scope); err != nil {
				return err
			}
		default:
			fmt.Fprintln(out, "result kept; run `path select` to choose later")
			return nil
		}
	}
}

func printResult(out io.Writer, res domain.Result) {
	fmt.Fprintf(out, "\nYou are %s\n", res.Primary.Name)
	if res.Primary.Description != "" {
		fmt.Fprintf(out, "  %s\n", res.Primary.Description)
	}
	if res.Secondary != nil {
		fmt.Fprintf(out, "with a streak of %s\n", res.Secondary.Name)
	}
	ids := make([]string, 0, len(res.Scores))
	for id := range res.Scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(out, "  %-12s %d\n", id, res.Scores[id])
	}
}

func printPath(out io.Writer, state domain.PathState) {
	fmt.Fprintf(out, "\nPath for %s\n", state.ArchetypeName)
	for i, section := range state.Path {
		marker := " "
		switch {
		case i < state.Cursor:
			marker = "x"
		case i == state.Cursor:
			marker = ">"
		}
		fmt.Fprintf(out, " %s %d. %s\n", marker, i+1, section)
	}
}
