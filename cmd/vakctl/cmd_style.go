package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/vaktutor/internal/client/flows"
	"github.com/yungbote/vaktutor/internal/client/kv"
	"github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/learning/style"
)

var (
	questionCount int
	interests     string
)

var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Learning style test and selection",
}

var styleTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Take the learning style test interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		flow := flows.NewStyleTestFlow(sess.api, sess.store, sess.log, sess.timeout)
		st, err := flow.LoadQuestions(ctx, questionCount, interests)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if st.Fallback() {
			fmt.Fprintln(out, "Generated questions unavailable, using the standard set.")
		}
		if err := askQuestions(cmd.InOrStdin(), out, flow, st.Data.Questions); err != nil {
			return err
		}
		view, err := flow.Submit(ctx)
		if err != nil {
			return err
		}
		printStyle(out, view)
		return nil
	},
}

func askQuestions(in io.Reader, out io.Writer, flow *flows.StyleTestFlow, qs []style.Question) error {
	sc := bufio.NewScanner(in)
	for _, q := range qs {
		for {
			fmt.Fprintf(out, "\n%d. %s\n", q.ID, q.Text)
			for _, o := range q.Options {
				fmt.Fprintf(out, "   %s) %s\n", o.Key, o.Text)
			}
			fmt.Fprint(out, "> ")
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return err
				}
				return io.ErrUnexpectedEOF
			}
			l, ok := q.StyleFor(sc.Text())
			if !ok {
				fmt.Fprintln(out, "Pick one of the listed options.")
				continue
			}
			if err := flow.Answer(q.ID, l); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

var styleSelectCmd = &cobra.Command{
	Use:   "select <visual|auditory|kinesthetic>",
	Short: "Set your learning style without the test",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := style.ParseLabel(args[0])
		if err != nil {
			return err
		}
		flow := flows.NewStyleTestFlow(sess.api, sess.store, sess.log, sess.timeout)
		view, err := flow.SelectDirect(cmd.Context(), l)
		if err != nil {
			return err
		}
		printStyle(cmd.OutOrStdout(), view)
		return nil
	},
}

var styleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your stored learning style",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := sess.api.MyStyle(cmd.Context())
		if err != nil {
			if cached, ok := flows.CachedStyle(cmd.Context(), sess.store, sess.log); ok {
				fmt.Fprintln(cmd.OutOrStdout(), "(cached, server unavailable)")
				printStyle(cmd.OutOrStdout(), cached)
				return nil
			}
			return err
		}
		if view.LearningStyle == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No learning style yet. Run `vakctl style test`.")
			return nil
		}
		printStyle(cmd.OutOrStdout(), view)
		return nil
	},
}

var styleClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget your learning style",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sess.api.ClearStyle(cmd.Context()); err != nil {
			return err
		}
		_ = sess.store.Delete(cmd.Context(), kv.KeyStyleSummary)
		fmt.Fprintln(cmd.OutOrStdout(), "Learning style cleared.")
		return nil
	},
}

func printStyle(w io.Writer, v domain.StyleView) {
	fmt.Fprintf(w, "Learning style: %s\n", strings.ToUpper(v.LearningStyle))
	fmt.Fprintf(w, "  visual=%d auditory=%d kinesthetic=%d\n", v.VisualScore, v.AuditoryScore, v.KinestheticScore)
}

func init() {
	styleTestCmd.Flags().IntVarP(&questionCount, "count", "n", style.MinQuestions, "Number of questions")
	styleTestCmd.Flags().StringVar(&interests, "interests", "", "Topics to theme the questions around")

	styleCmd.AddCommand(styleTestCmd)
	styleCmd.AddCommand(styleSelectCmd)
	styleCmd.AddCommand(styleShowCmd)
	styleCmd.AddCommand(styleClearCmd)
}
