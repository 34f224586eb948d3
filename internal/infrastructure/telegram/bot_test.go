package telegram

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

type fakeController struct {
	paused   bool
	uploads  int
	max      int
	queue    int
	trigger  string
	resumed  bool
	pausedBy bool
}

func (f *fakeController) Pause()         { f.paused = true; f.pausedBy = true }
func (f *fakeController) Resume()        { f.paused = false; f.resumed = true }
func (f *fakeController) Paused() bool   { return f.paused }
func (f *fakeController) UploadsToday() int { return f.uploads }
func (f *fakeController) MaxDaily() int  { return f.max }
func (f *fakeController) QueueLength() int { return f.queue }
func (f *fakeController) TriggerUpload(context.Context) string { return f.trigger }

func newTestBot(ctrl Controller) *Bot {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewBot("token", "42", "", ctrl, logger)
}

func TestDispatchStatus(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{uploads: 2, max: 3, queue: 5}
	bot := newTestBot(ctrl)

	got := bot.dispatch(context.Background(), "/status")
	want := "State: running\nUploads today: 2/3\nQueue: 5 video(s)"
	if got != want {
		t.Errorf("status = %q, want %q", got, want)
	}

	ctrl.paused = true
	if got := bot.dispatch(context.Background(), "/status"); got[:13] != "State: paused" {
		t.Errorf("paused status = %q", got)
	}
}

func TestDispatchPauseResume(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{}
	bot := newTestBot(ctrl)

	bot.dispatch(context.Background(), "/pause")
	if !ctrl.pausedBy {
		t.Error("pause command did not reach controller")
	}
	bot.dispatch(context.Background(), "/resume")
	if !ctrl.resumed {
		t.Error("resume command did not reach controller")
	}
}

func TestDispatchUpload(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{trigger: "✅ done"}
	bot := newTestBot(ctrl)

	if got := bot.dispatch(context.Background(), "/upload"); got != "✅ done" {
		t.Errorf("upload reply = %q", got)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	t.Parallel()

	bot := newTestBot(&fakeController{})
	if got := bot.dispatch(context.Background(), "/frobnicate"); got != "" {
		t.Errorf("unknown command reply = %q, want empty", got)
	}
}

func TestHandleUpdateIgnoresForeignChat(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{}
	bot := newTestBot(ctrl)

	u := update{UpdateID: 1}
	u.Message = &struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	}{Text: "/pause"}
	u.Message.Chat.ID = 999

	bot.handleUpdate(context.Background(), u)
	if ctrl.pausedBy {
		t.Error("command from foreign chat must be ignored")
	}
}
