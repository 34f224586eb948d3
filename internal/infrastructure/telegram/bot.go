package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	pollTimeoutSeconds = 30
	logTailLines       = 30
)

// Controller is the surface the bot drives on behalf of the operator.
type Controller interface {
	Pause()
	Resume()
	Paused() bool
	UploadsToday() int
	MaxDaily() int
	QueueLength() int
	TriggerUpload(ctx context.Context) string
}

// Bot long-polls the Telegram getUpdates API and dispatches operator
// commands. Only messages from the configured chat are honored.
type Bot struct {
	botToken   string
	chatID     string
	baseURL    string
	logPath    string
	controller Controller
	logger     *slog.Logger
	client     *http.Client
	offset     int64
}

// NewBot wires the command bot. logPath may be empty; /logs then reports
// that file logging is disabled.
func NewBot(botToken, chatID, logPath string, controller Controller, logger *slog.Logger) *Bot {
	return &Bot{
		botToken:   botToken,
		chatID:     chatID,
		baseURL:    apiBase,
		logPath:    logPath,
		controller: controller,
		logger:     logger.With("component", "telegram_bot"),
		client:     &http.Client{Timeout: (pollTimeoutSeconds + 10) * time.Second},
	}
}

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// Run polls for updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	if b.botToken == "" || b.chatID == "" {
		return fmt.Errorf("telegram bot misconfigured")
	}
	b.logger.Info("bot started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := b.getUpdates(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			b.logger.Warn("poll updates", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= b.offset {
				b.offset = u.UpdateID + 1
			}
			b.handleUpdate(ctx, u)
		}
	}
}

func (b *Bot) getUpdates(ctx context.Context) ([]update, error) {
	q := url.Values{}
	q.Set("timeout", strconv.Itoa(pollTimeoutSeconds))
	if b.offset > 0 {
		q.Set("offset", strconv.FormatInt(b.offset, 10))
	}
	endpoint := fmt.Sprintf("%s/bot%s/getUpdates?%s", b.baseURL, b.botToken, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram error: %s", resp.Status)
	}

	var payload struct {
		OK     bool     `json:"ok"`
		Result []update `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	if !payload.OK {
		return nil, fmt.Errorf("telegram getUpdates not ok")
	}
	return payload.Result, nil
}

func (b *Bot) handleUpdate(ctx context.Context, u update) {
	if u.Message == nil {
		return
	}
	if strconv.FormatInt(u.Message.Chat.ID, 10) != b.chatID {
		b.logger.Warn("ignoring message from unknown chat", "chat_id", u.Message.Chat.ID)
		return
	}

	command := strings.TrimSpace(u.Message.Text)
	if idx := strings.Index(command, "@"); idx > 0 {
		command = command[:idx]
	}

	reply := b.dispatch(ctx, command)
	if reply == "" {
		return
	}
	if err := sendMessage(ctx, b.client, b.baseURL, b.botToken, b.chatID, reply); err != nil {
		b.logger.Warn("send reply", "error", err)
	}
}

func (b *Bot) dispatch(ctx context.Context, command string) string {
	switch command {
	case "/start":
		return "Shorts publisher bot.\n" +
			"/status - counters and pause state\n" +
			"/upload - trigger an upload now\n" +
			"/pause - stop scheduled uploads\n" +
			"/resume - continue scheduled uploads\n" +
			"/logs - recent log lines"
	case "/status":
		return b.statusText()
	case "/upload":
		return b.controller.TriggerUpload(ctx)
	case "/pause":
		b.controller.Pause()
		return "⏸ Uploads paused."
	case "/resume":
		b.controller.Resume()
		return "▶️ Uploads resumed."
	case "/logs":
		return b.logsText()
	default:
		return ""
	}
}

func (b *Bot) statusText() string {
	state := "running"
	if b.controller.Paused() {
		state = "paused"
	}
	return fmt.Sprintf("State: %s\nUploads today: %d/%d\nQueue: %d video(s)",
		state, b.controller.UploadsToday(), b.controller.MaxDaily(), b.controller.QueueLength())
}

func (b *Bot) logsText() string {
	if b.logPath == "" {
		return "File logging is disabled."
	}
	data, err := os.ReadFile(b.logPath)
	if err != nil {
		return fmt.Sprintf("Cannot read log file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > logTailLines {
		lines = lines[len(lines)-logTailLines:]
	}
	return strings.Join(lines, "\n")
}
