package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/honganh1206/professor/agent"
	"github.com/honganh1206/professor/api"
	"github.com/honganh1206/professor/message"
	"github.com/honganh1206/professor/session"
	"github.com/honganh1206/professor/utils"
	"github.com/spf13/cobra"
)

const (
	colorReset = "\033[0m"
	colorBlue  = "\033[34m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
)

func newAPIClient(cmd *cobra.Command) (*api.Client, error) {
	client, err := api.NewClient(cfg.ServerURL)
	if err != nil {
		return nil, err
	}

	id, err := cmd.Flags().GetString("session")
	if err != nil {
		return nil, err
	}
	if id != "" {
		if err := client.UseSession(id); err != nil {
			return nil, err
		}
	}

	if err := client.Health(); err != nil {
		return nil, fmt.Errorf("server at %s is not reachable: %w", cfg.ServerURL, err)
	}
	return client, nil
}

func ChatHandler(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	return chat(client, os.Stdin, os.Stdout)
}

// chat runs the terminal loop. Lines starting with "/" are commands, anything
// else is a question for the active conversation.
func chat(client *api.Client, in io.Reader, out io.Writer) error {
	snap, err := client.State()
	if err != nil {
		return err
	}

	activeID := snap.ActiveID
	if activeID == "" {
		conv, err := client.CreateConversation()
		if err != nil {
			return err
		}
		activeID = conv.ID
	} else if err := printHistory(client, activeID, out); err != nil {
		return err
	}

	fmt.Fprint(out, utils.RenderBox("Professor", []string{
		"Ask anything and it will be explained simply.",
		"/new  /list  /open N  /delete ID  /quit",
		"session: " + client.SessionID(),
	}))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "\n%s> %s", colorBlue, colorReset)
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			next, quit, err := runChatCommand(client, activeID, line, out)
			if err != nil {
				fmt.Fprintf(out, "%sError: %v%s\n", colorRed, err, colorReset)
			}
			if quit {
				return nil
			}
			activeID = next
			continue
		}

		turn, err := client.SubmitPrompt(activeID, line)
		if errors.Is(err, agent.ErrUpstream) {
			fmt.Fprintf(out, "%sSomething went wrong: %v%s\n", colorRed, err, colorReset)
			continue
		}
		if err != nil {
			fmt.Fprintf(out, "%sError: %v%s\n", colorRed, err, colorReset)
			continue
		}
		fmt.Fprintf(out, "\n%s\n", turn.Reply.Content)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

func runChatCommand(client *api.Client, activeID, line string, out io.Writer) (string, bool, error) {
	fields := strings.Fields(line)

	switch fields[0] {
	case "/quit", "/exit":
		return activeID, true, nil
	case "/new":
		conv, err := client.CreateConversation()
		if err != nil {
			return activeID, false, err
		}
		fmt.Fprintf(out, "%sStarted %s%s\n", colorGreen, conv.Name, colorReset)
		return conv.ID, false, nil
	case "/list":
		return activeID, false, printConversations(client, activeID, out)
	case "/open":
		if len(fields) != 2 {
			return activeID, false, errors.New("usage: /open N")
		}
		list, err := client.ListConversations()
		if err != nil {
			return activeID, false, err
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > len(list) {
			return activeID, false, fmt.Errorf("no conversation %q", fields[1])
		}
		id := list[n-1].ID
		opened, err := client.OpenConversation(id)
		if err != nil {
			return activeID, false, err
		}
		if !opened {
			fmt.Fprintf(out, "%sLeave delete mode first%s\n", colorRed, colorReset)
			return activeID, false, nil
		}
		return id, false, printHistory(client, id, out)
	case "/delete":
		if len(fields) != 2 {
			return activeID, false, errors.New("usage: /delete ID")
		}
		msgID, err := strconv.Atoi(fields[1])
		if err != nil {
			return activeID, false, fmt.Errorf("invalid message id %q", fields[1])
		}
		return activeID, false, client.DeleteMessage(activeID, msgID)
	default:
		return activeID, false, fmt.Errorf("unknown command %s", fields[0])
	}
}

func printConversations(client *api.Client, activeID string, out io.Writer) error {
	list, err := client.ListConversations()
	if err != nil {
		return err
	}

	headers := []string{"#", "Name", "Messages", "Created"}
	var data [][]string
	for i, conv := range list {
		name := conv.Name
		if conv.ID == activeID {
			name = "* " + name
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			name,
			strconv.Itoa(conv.MessageCount),
			conv.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return utils.RenderTable(out, headers, data)
}

func printHistory(client *api.Client, id string, out io.Writer) error {
	conv, err := client.GetConversation(id)
	if errors.Is(err, session.ErrConversationNotFound) {
		return fmt.Errorf("conversation %s no longer exists", id)
	}
	if err != nil {
		return err
	}

	for _, msg := range conv.Messages {
		fmt.Fprint(out, formatMessagePlain(msg))
	}
	return nil
}

func formatMessagePlain(msg message.Message) string {
	switch msg.Role {
	case message.UserRole:
		return fmt.Sprintf("\n%s[%d]> %s%s\n", colorBlue, msg.ID, msg.Content, colorReset)
	default:
		return fmt.Sprintf("\n[%d] %s\n", msg.ID, msg.Content)
	}
}
