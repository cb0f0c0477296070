package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var (
		jsonOutput bool
		maxEvents  int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream store notifications",
		Long: `Connect to the store's SSE endpoint and stream notifications in real time.

Events include:
  - connected: Stream established
  - notice: Order accepted, delivered or failed, or a submission was rejected

Press Ctrl+C to disconnect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			url := strings.TrimSuffix(cfg.ServerURL, "/") + "/api/v1/events"
			return streamEvents(ctx, cmd.OutOrStdout(), url, jsonOutput || cfg.Output == "json", maxEvents)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().IntVar(&maxEvents, "max", 0, "Disconnect after this many notice events (0 streams until interrupted)")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

// NoticeEvent is the payload of a notice event
type NoticeEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
	OrderID     int64  `json:"order_id,omitempty"`
}

func streamEvents(ctx context.Context, w io.Writer, url string, jsonOutput bool, maxEvents int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	httpClient := &http.Client{
		Timeout: 0, // No timeout for SSE
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !jsonOutput {
		_, _ = fmt.Fprintln(w, "Connected to store notifications")
	}

	// Parse SSE stream
	scanner := bufio.NewScanner(resp.Body)
	var currentEvent string
	var dataLines []string
	notices := 0

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "event: ") {
			currentEvent = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		} else if line == "" {
			// End of event
			if currentEvent != "" {
				printEvent(w, currentEvent, strings.Join(dataLines, "\n"), jsonOutput)
				if currentEvent == "notice" {
					notices++
				}
			}
			currentEvent = ""
			dataLines = nil

			if maxEvents > 0 && notices >= maxEvents {
				return nil
			}
		}
	}

	if err := scanner.Err(); err != nil {
		// Context cancellation is expected
		if ctx.Err() != nil {
			if !jsonOutput {
				_, _ = fmt.Fprintln(w, "\nDisconnected")
			}
			return nil
		}
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		_, _ = fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

func printEvent(w io.Writer, event, data string, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		evt := SSEEvent{
			Time:  now,
			Event: event,
			Data:  data,
		}
		jsonData, _ := json.Marshal(evt)
		_, _ = fmt.Fprintln(w, string(jsonData))
		return
	}

	timestamp := now.Format("2006-01-02 15:04:05")

	var notice NoticeEvent
	if event == "notice" && json.Unmarshal([]byte(data), &notice) == nil {
		marker := ""
		if notice.Variant == "destructive" {
			marker = " [!]"
		}
		_, _ = fmt.Fprintf(w, "[%s]%s %s: %s\n", timestamp, marker, notice.Title, notice.Description)
		return
	}

	// Truncate data if it's too long for display
	displayData := data
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	// Remove newlines for cleaner display
	displayData = strings.ReplaceAll(displayData, "\n", " ")
	_, _ = fmt.Fprintf(w, "[%s] %s: %s\n", timestamp, event, displayData)
}
