package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/honganh1206/professor/feedback"
	"github.com/honganh1206/professor/utils"
	"github.com/spf13/cobra"
)

func ConversationsHandler(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	snap, err := client.State()
	if err != nil {
		return err
	}

	if len(snap.Conversations) == 0 {
		fmt.Println("No conversations found.")
		return nil
	}

	return printConversations(client, snap.ActiveID, os.Stdout)
}

func FeedbackHandler(cmd *cobra.Command, args []string) error {
	if cfg.FeedbackDB == "" {
		return errors.New("FEEDBACK_DB is not set; feedback was only logged")
	}

	store, err := feedback.OpenSQLiteStore(cfg.FeedbackDB)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No feedback yet.")
		return nil
	}

	headers := []string{"ID", "Received", "Session", "Feedback"}
	var data [][]string
	for _, e := range entries {
		data = append(data, []string{
			strconv.FormatInt(e.ID, 10),
			e.CreatedAt.Local().Format(time.DateTime),
			e.SessionID,
			e.Text,
		})
	}

	return utils.RenderTable(os.Stdout, headers, data)
}
