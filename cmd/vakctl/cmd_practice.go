package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/vaktutor/internal/client/flows"
	"github.com/yungbote/vaktutor/internal/client/resolve"
	"github.com/yungbote/vaktutor/internal/domain"
)

var (
	practiceTopic string
	practiceTask  string
	codeFile      string
	timeSpent     time.Duration
	skipRun       bool
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Kinesthetic practice lab",
}

// openPractice resolves tasks and loads code from --file when given.
func openPractice(cmd *cobra.Command) (*flows.PracticeFlow, resolve.Resolution, error) {
	flow := flows.NewPracticeFlow(sess.api, sess.handoff, sess.log, sess.timeout)
	res := flow.Open(cmd.Context(), practiceTopic, practiceTask)
	if res.Empty() {
		if res.Err != nil {
			return nil, res, res.Err
		}
		return nil, res, fmt.Errorf("no practice tasks available")
	}
	if practiceTask != "" && (res.Selected == nil || !flow.SelectTask(practiceTask)) {
		return nil, res, fmt.Errorf("no task named %q", practiceTask)
	}
	if codeFile != "" {
		raw, err := os.ReadFile(codeFile)
		if err != nil {
			return nil, res, err
		}
		flow.SetCode(string(raw))
	}
	return flow, flow.Resolution(), nil
}

var practiceOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "List practice tasks and print the selected starter code",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flow, res, err := openPractice(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Topic: %s (%s)\n\n", res.Topic, res.Source)
		sel, _ := flow.Selected()
		for _, t := range res.Tasks {
			mark := " "
			if t.Name == sel.Name {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n    %s\n", mark, t.Name, t.Description)
		}
		fmt.Fprintf(out, "\n--- %s ---\n%s\n", sel.Name, flow.Code())
		return nil
	},
}

var practiceRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Compile and run Java code for the selected task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flow, _, err := openPractice(cmd)
		if err != nil {
			return err
		}
		res, err := flow.Run(cmd.Context())
		if err != nil {
			return err
		}
		printRun(cmd.OutOrStdout(), res)
		return nil
	},
}

var practiceSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Record an attempt at the selected task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flow, _, err := openPractice(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !skipRun {
			res, err := flow.Run(cmd.Context())
			if err != nil {
				return err
			}
			printRun(out, res)
		}
		resp, err := flow.Submit(cmd.Context(), timeSpent)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Submitted (activity %s)\n", resp.ActivityID)
		return nil
	},
}

var practiceHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent practice attempts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flow := flows.NewPracticeFlow(sess.api, sess.handoff, sess.log, sess.timeout)
		rows, err := flow.History(cmd.Context())
		if err != nil {
			return err
		}
		for _, a := range rows {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s %4ds  %s\n", a.UpdatedAt.Local().Format("2006-01-02 15:04"), a.Status, a.TimeSpent, a.TaskName)
		}
		return nil
	},
}

func printRun(w io.Writer, r domain.RunResult) {
	fmt.Fprintf(w, "status: %s (runner %s)\n", r.Status, r.Runner)
	if r.Note != "" {
		fmt.Fprintf(w, "note: %s\n", r.Note)
	}
	if r.Stdout != "" {
		fmt.Fprintf(w, "--- stdout ---\n%s\n", r.Stdout)
	}
	if r.Stderr != "" {
		fmt.Fprintf(w, "--- stderr ---\n%s\n", r.Stderr)
	}
}

func init() {
	for _, c := range []*cobra.Command{practiceOpenCmd, practiceRunCmd, practiceSubmitCmd} {
		c.Flags().StringVar(&practiceTopic, "topic", "", "Topic to fetch tasks for")
		c.Flags().StringVar(&practiceTask, "task", "", "Task name to select")
	}
	for _, c := range []*cobra.Command{practiceRunCmd, practiceSubmitCmd} {
		c.Flags().StringVarP(&codeFile, "file", "f", "", "Java source file (default: starter code)")
	}
	practiceSubmitCmd.Flags().DurationVar(&timeSpent, "time", 0, "Time spent on the task")
	practiceSubmitCmd.Flags().BoolVar(&skipRun, "no-run", false, "Submit without running first")

	practiceCmd.AddCommand(practiceOpenCmd)
	practiceCmd.AddCommand(practiceRunCmd)
	practiceCmd.AddCommand(practiceSubmitCmd)
	practiceCmd.AddCommand(practiceHistoryCmd)
}
