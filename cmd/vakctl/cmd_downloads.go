package main

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/vaktutor/internal/domain"
)

var (
	downloadType  string
	downloadTopic string
	downloadOut   string
)

var downloadsCmd = &cobra.Command{
	Use:   "downloads",
	Short: "Generate and fetch study material",
}

var downloadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your generated files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := sess.api.Downloads(cmd.Context())
		if err != nil {
			return err
		}
		for _, d := range rows {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-16s %s\n", d.Timestamp.Local().Format("2006-01-02 15:04"), d.DownloadID, d.ContentType, d.Topic)
		}
		return nil
	},
}

var downloadsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a file for a topic",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := sess.api.CreateDownload(cmd.Context(), domain.CreateDownloadRequest{
			ContentType: downloadType,
			Topic:       downloadTopic,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", view.DownloadID, view.ContentType)
		return nil
	},
}

var downloadsGetCmd = &cobra.Command{
	Use:   "get <download-id>",
	Short: "Save a generated file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("bad download id: %w", err)
		}
		data, err := sess.api.FetchDownload(cmd.Context(), id)
		if err != nil {
			return err
		}
		path := downloadOut
		if path == "" {
			path = filepath.Join(cfg.StateDir, "downloads", id.String())
		}
		if err := writeFile(path, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d bytes to %s\n", len(data), path)
		return nil
	},
}

func init() {
	downloadsCreateCmd.Flags().StringVar(&downloadType, "type", "", "Content type, e.g. pdf, audio or task_sheet")
	downloadsCreateCmd.Flags().StringVar(&downloadTopic, "topic", "", "Topic to generate material for")
	_ = downloadsCreateCmd.MarkFlagRequired("type")
	downloadsGetCmd.Flags().StringVarP(&downloadOut, "out", "o", "", "Output path")

	downloadsCmd.AddCommand(downloadsListCmd)
	downloadsCmd.AddCommand(downloadsCreateCmd)
	downloadsCmd.AddCommand(downloadsGetCmd)
}
