package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/vaktutor/internal/client/flows"
	"github.com/yungbote/vaktutor/internal/domain"
)

var audioOut string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask the tutor and manage chat history",
}

var chatAskCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the tutor a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		flow := flows.NewChatFlow(sess.api, sess.handoff, sess.cache, sess.log, sess.timeout)
		boot := flow.Boot(ctx)
		if boot.StyleErr != nil {
			fmt.Fprintln(out, "Could not load your learning style; answers may not be personalized.")
		}

		res, err := flow.Ask(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		printAnswer(out, res.Response)
		if res.Handoff {
			fmt.Fprintln(out, "\nPractice tasks are ready: run `vakctl practice open`.")
		}
		if len(res.Audio) > 0 {
			path := audioOut
			if path == "" {
				path = filepath.Join(cfg.StateDir, "audio", res.Response.ChatID.String()+".mp3")
			}
			if err := writeFile(path, res.Audio); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nAudio saved to %s\n", path)
		}
		return nil
	},
}

func printAnswer(w io.Writer, r domain.ContentResponse) {
	fmt.Fprintf(w, "[%s]\n\n%s\n", r.ResponseType, r.Text)
	a := r.Assets
	if a.Diagram != "" {
		fmt.Fprintf(w, "\nDiagram:\n%s\n", a.Diagram)
	}
	for _, link := range []string{a.VideoURL, a.GIFURL, a.AudioURL} {
		if link != "" {
			fmt.Fprintf(w, "  %s\n", link)
		}
	}
	if a.AudioScript != "" {
		fmt.Fprintf(w, "\nScript:\n%s\n", a.AudioScript)
	}
	if a.TaskSheet != "" {
		fmt.Fprintf(w, "\nTasks:\n%s\n", a.TaskSheet)
	}
	if len(a.SuggestedDownloads) > 0 {
		fmt.Fprintf(w, "\nDownloads: %s\n", strings.Join(a.SuggestedDownloads, ", "))
	}
	if p := r.Practice; p != nil {
		for _, t := range p.Tasks {
			fmt.Fprintf(w, "  - %s: %s\n", t.Name, t.Description)
		}
	}
	if r.ChatID != uuid.Nil {
		fmt.Fprintf(w, "\nchat id: %s\n", r.ChatID)
	}
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous questions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := sess.api.History(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(rows) == 0 {
			fmt.Fprintln(out, "No history yet.")
			return nil
		}
		for _, h := range rows {
			rating := ""
			if h.Rating != nil {
				rating = fmt.Sprintf(" rating=%+d", *h.Rating)
			}
			fmt.Fprintf(out, "%s  %s  [%s]%s\n  %s\n", h.Timestamp.Local().Format("2006-01-02 15:04"), h.ID, h.LearningStyleUsed, rating, h.Question)
		}
		return nil
	},
}

var chatClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete chat history and local session state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flow := flows.NewChatFlow(sess.api, sess.handoff, sess.cache, sess.log, sess.timeout)
		if err := flow.ClearHistory(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

var chatNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new chat, keeping server history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flow := flows.NewChatFlow(sess.api, sess.handoff, sess.cache, sess.log, sess.timeout)
		return flow.NewChat(cmd.Context())
	},
}

var chatFeedbackCmd = &cobra.Command{
	Use:   "feedback <up|down> [comment]",
	Short: "Rate the latest answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var rating int
		switch strings.ToLower(args[0]) {
		case "up", "+1", "1":
			rating = 1
		case "down", "-1":
			rating = -1
		default:
			return fmt.Errorf("rating must be up or down, got %q", args[0])
		}
		latest, ok := sess.cache.Load(cmd.Context())
		if !ok || latest.ChatID == uuid.Nil {
			return flows.ErrNoAnswer
		}
		comment := strings.Join(args[1:], " ")
		if err := sess.api.Feedback(cmd.Context(), latest.ChatID, rating, comment); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Thanks for the feedback.")
		return nil
	},
}

var chatSuggestCmd = &cobra.Command{
	Use:   "suggest [topic]",
	Short: "Show prompt ideas",
	RunE: func(cmd *cobra.Command, args []string) error {
		prompts, err := sess.api.Suggestions(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		for _, p := range prompts {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
		}
		return nil
	},
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func init() {
	chatAskCmd.Flags().StringVar(&audioOut, "audio-out", "", "Where to save narrated audio")

	chatCmd.AddCommand(chatAskCmd)
	chatCmd.AddCommand(chatHistoryCmd)
	chatCmd.AddCommand(chatClearCmd)
	chatCmd.AddCommand(chatNewCmd)
	chatCmd.AddCommand(chatFeedbackCmd)
	chatCmd.AddCommand(chatSuggestCmd)
}
