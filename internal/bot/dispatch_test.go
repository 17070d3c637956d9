package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/chat"
	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/registry"
	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/service/session"
)

type fakeTransport struct {
	sent      []string
	markdown  []string
	keyboards [][]Button
	answered  []string
	edits     []string
}

func (f *fakeTransport) Send(_ int64, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeTransport) SendMarkdown(_ int64, text string) error {
	f.markdown = append(f.markdown, text)
	return nil
}

func (f *fakeTransport) SendKeyboard(_ int64, text string, buttons []Button) error {
	f.sent = append(f.sent, text)
	f.keyboards = append(f.keyboards, buttons)
	return nil
}

func (f *fakeTransport) AnswerCallback(callbackID string) error {
	f.answered = append(f.answered, callbackID)
	return nil
}

func (f *fakeTransport) EditMessage(_ int64, _ int, text string) error {
	f.edits = append(f.edits, text)
	return nil
}

func (f *fakeTransport) lastSent() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type fakeGateway struct {
	reply string
	err   error
	calls [][]chat.Message
	bound []string
}

func (f *fakeGateway) Bind(_ context.Context, modelID string) error {
	f.bound = append(f.bound, modelID)
	return nil
}

func (f *fakeGateway) Generate(_ context.Context, _ string, messages []chat.Message) (chat.Message, error) {
	f.calls = append(f.calls, append([]chat.Message(nil), messages...))
	if f.err != nil {
		return chat.Message{}, f.err
	}
	return chat.Assistant(f.reply), nil
}

func newTestBot(reply string) (*Bot, *fakeTransport, *fakeGateway, *session.Store) {
	models := registry.NewMemoryStore(registry.Seed())
	sessions := session.NewStore(models)
	transport := &fakeTransport{}
	gateway := &fakeGateway{reply: reply}
	return New(sessions, models, gateway, transport), transport, gateway, sessions
}

func text(userID int64, content string) Update {
	return Update{UserID: userID, ChatID: userID, Text: content}
}

func command(userID int64, name string) Update {
	return Update{UserID: userID, ChatID: userID, Command: name}
}

func callback(userID int64, data string) Update {
	return Update{UserID: userID, ChatID: userID, CallbackID: "cb-1", CallbackData: data, MessageID: 7}
}

func history(t *testing.T, sessions *session.Store, userID int64) []chat.Message {
	t.Helper()
	sess, created := sessions.GetOrCreate(userID)
	if created {
		t.Fatal("session unexpectedly missing")
	}
	return sess.History
}

func TestScenarioStartThenConversation(t *testing.T) {
	b, transport, gateway, sessions := newTestBot("Здравствуйте!")
	ctx := context.Background()

	b.Dispatch(ctx, command(1, "start"))
	sess, created := sessions.GetOrCreate(1)
	if created {
		t.Fatal("start must have created the session")
	}
	if sess.ModelName != "GigaChat Lite" || !sess.ContextEnabled || len(sess.History) != 0 {
		t.Fatalf("unexpected session after /start: %+v", sess)
	}

	b.Dispatch(ctx, text(1, "Hello"))
	if len(gateway.calls) != 1 {
		t.Fatalf("expected one gateway call, got %d", len(gateway.calls))
	}
	if got := gateway.calls[0]; len(got) != 1 || got[0].Role != chat.RoleUser || got[0].Content != "Hello" {
		t.Fatalf("unexpected gateway input: %+v", got)
	}

	// Only the assistant reply is persisted.
	h := history(t, sessions, 1)
	if len(h) != 1 || h[0].Role != chat.RoleAssistant || h[0].Content != "Здравствуйте!" {
		t.Fatalf("unexpected history: %+v", h)
	}
	if len(transport.markdown) != 2 {
		t.Fatalf("expected greeting and escaped reply, got %d markdown sends", len(transport.markdown))
	}
}

func TestScenarioDisabledContextDoesNotAccumulate(t *testing.T) {
	b, _, gateway, sessions := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, command(1, "disable_context"))
	b.Dispatch(ctx, text(1, "Hi"))
	b.Dispatch(ctx, text(1, "Hi"))

	if len(gateway.calls) != 2 {
		t.Fatalf("expected two gateway calls, got %d", len(gateway.calls))
	}
	for i, call := range gateway.calls {
		if len(call) != 1 || call[0].Content != "Hi" {
			t.Fatalf("call %d accumulated context: %+v", i, call)
		}
	}
	if h := history(t, sessions, 1); len(h) != 0 {
		t.Fatalf("history must stay empty while disabled: %+v", h)
	}
}

func TestScenarioSetContextDialog(t *testing.T) {
	b, transport, _, sessions := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, command(1, "set_context"))
	if transport.lastSent() != msgEnterContext {
		t.Fatalf("missing dialog prompt, got %q", transport.lastSent())
	}

	b.Dispatch(ctx, text(1, "You are terse."))
	h := history(t, sessions, 1)
	if len(h) != 1 || h[0].Role != chat.RoleSystem || h[0].Content != "You are terse." {
		t.Fatalf("unexpected history after dialog: %+v", h)
	}
	sess, _ := sessions.GetOrCreate(1)
	if sess.Dialog != chat.StateIdle {
		t.Fatal("dialog state not cleared after completion")
	}

	// The dialog must be reachable again.
	b.Dispatch(ctx, command(1, "set_context"))
	sess, _ = sessions.GetOrCreate(1)
	if sess.Dialog != chat.StateAwaitingContext {
		t.Fatal("dialog not reachable after completion")
	}
}

func TestSetContextReplacesHistory(t *testing.T) {
	b, _, _, sessions := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, text(1, "раз"))
	b.Dispatch(ctx, text(1, "два"))
	if h := history(t, sessions, 1); len(h) != 2 {
		t.Fatalf("precondition failed: %+v", h)
	}

	b.Dispatch(ctx, command(1, "set_context"))
	b.Dispatch(ctx, text(1, "будь краток"))

	h := history(t, sessions, 1)
	if len(h) != 1 || h[0].Role != chat.RoleSystem || h[0].Content != "будь краток" {
		t.Fatalf("dialog must replace, not append: %+v", h)
	}
}

func TestCancelLeavesSessionUntouched(t *testing.T) {
	b, transport, _, sessions := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, text(1, "привет"))
	before, _ := sessions.GetOrCreate(1)

	b.Dispatch(ctx, command(1, "set_context"))
	b.Dispatch(ctx, command(1, "cancel"))

	after, _ := sessions.GetOrCreate(1)
	if after.Dialog != chat.StateIdle {
		t.Fatal("cancel must close the dialog")
	}
	if after.ContextEnabled != before.ContextEnabled || len(after.History) != len(before.History) {
		t.Fatalf("cancel mutated the session: before=%+v after=%+v", before, after)
	}
	if transport.lastSent() != msgCancelled {
		t.Fatalf("missing cancel confirmation, got %q", transport.lastSent())
	}
}

func TestCommandAbortsPendingDialog(t *testing.T) {
	b, _, gateway, sessions := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, command(1, "set_context"))
	b.Dispatch(ctx, command(1, "help"))

	sess, _ := sessions.GetOrCreate(1)
	if sess.Dialog != chat.StateIdle {
		t.Fatal("command must abort the pending dialog")
	}

	// Free text after the abort is a regular conversation turn.
	b.Dispatch(ctx, text(1, "привет"))
	if len(gateway.calls) != 1 {
		t.Fatal("free text after abort must reach the gateway")
	}
}

func TestModelSwitchIsolation(t *testing.T) {
	b, transport, gateway, sessions := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, text(1, "привет"))
	before, _ := sessions.GetOrCreate(1)

	b.Dispatch(ctx, callback(1, "GigaChat-Pro"))

	after, _ := sessions.GetOrCreate(1)
	if after.ModelID != "GigaChat-Pro" || after.ModelName != "GigaChat Pro" {
		t.Fatalf("model not switched: %+v", after)
	}
	if after.ContextEnabled != before.ContextEnabled || len(after.History) != len(before.History) {
		t.Fatal("model switch must not touch history or context toggle")
	}
	if len(gateway.bound) == 0 || gateway.bound[len(gateway.bound)-1] != "GigaChat-Pro" {
		t.Fatalf("selection must bind the model: %v", gateway.bound)
	}
	if len(transport.answered) != 1 {
		t.Fatal("callback must be acknowledged")
	}
	if len(transport.edits) != 1 || !strings.Contains(transport.edits[0], "GigaChat Pro") {
		t.Fatalf("missing selection confirmation: %v", transport.edits)
	}
}

func TestUnknownModelSelectionIgnored(t *testing.T) {
	b, transport, _, sessions := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, text(1, "привет"))
	before, _ := sessions.GetOrCreate(1)

	b.Dispatch(ctx, callback(1, "GigaChat-Ultra"))

	if len(transport.answered) != 1 {
		t.Fatal("callback must be acknowledged even for unknown ids")
	}
	after, _ := sessions.GetOrCreate(1)
	if after.ModelID != before.ModelID || after.ModelName != before.ModelName {
		t.Fatalf("unknown selection mutated the session: %+v", after)
	}
	if len(transport.edits) != 0 {
		t.Fatal("no confirmation may be sent for an unknown id")
	}
}

func TestEnableContextIdempotent(t *testing.T) {
	b, transport, _, sessions := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, text(1, "привет"))
	if h := history(t, sessions, 1); len(h) != 1 {
		t.Fatalf("precondition failed: %+v", h)
	}

	b.Dispatch(ctx, command(1, "enable_context"))
	if transport.lastSent() != msgAlreadyEnabled {
		t.Fatalf("expected already-enabled notice, got %q", transport.lastSent())
	}
	if h := history(t, sessions, 1); len(h) != 1 {
		t.Fatal("enabling an already-enabled session must not clear history")
	}
}

func TestEnableAfterDisableClearsHistory(t *testing.T) {
	b, transport, _, sessions := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, command(1, "disable_context"))
	b.Dispatch(ctx, command(1, "enable_context"))

	sess, _ := sessions.GetOrCreate(1)
	if !sess.ContextEnabled || len(sess.History) != 0 {
		t.Fatalf("unexpected session after re-enable: %+v", sess)
	}
	if transport.lastSent() != msgContextEnabledNow {
		t.Fatalf("expected enable confirmation, got %q", transport.lastSent())
	}
}

func TestDisableAlreadyDisabled(t *testing.T) {
	b, transport, _, _ := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, command(1, "disable_context"))
	b.Dispatch(ctx, command(1, "disable_context"))

	var noticed bool
	for _, msg := range transport.sent {
		if msg == msgAlreadyDisabled {
			noticed = true
		}
	}
	if !noticed {
		t.Fatalf("expected already-disabled notice in %v", transport.sent)
	}
}

func TestClearContextWarnsWhenDisabled(t *testing.T) {
	b, transport, _, sessions := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, command(1, "disable_context"))
	b.Dispatch(ctx, command(1, "clear_context"))

	var warned, cleared bool
	for _, msg := range transport.sent {
		if msg == msgContextIsOff {
			warned = true
		}
		if msg == msgContextCleared {
			cleared = true
		}
	}
	if !warned || !cleared {
		t.Fatalf("expected warning and confirmation, got %v", transport.sent)
	}
	if h := history(t, sessions, 1); len(h) != 0 {
		t.Fatalf("history not cleared: %+v", h)
	}
}

func TestShowContext(t *testing.T) {
	b, transport, _, _ := newTestBot("ответ модели")
	ctx := context.Background()

	b.Dispatch(ctx, command(1, "show_current_context"))
	if transport.lastSent() != msgContextEmpty {
		t.Fatalf("expected empty notice, got %q", transport.lastSent())
	}

	b.Dispatch(ctx, text(1, "привет"))
	b.Dispatch(ctx, command(1, "show_current_context"))
	if got := transport.lastSent(); !strings.Contains(got, "**assistant:** ответ модели") {
		t.Fatalf("unexpected rendering: %q", got)
	}

	b.Dispatch(ctx, command(1, "disable_context"))
	b.Dispatch(ctx, command(1, "show_current_context"))
	if transport.lastSent() != msgContextIsOff {
		t.Fatalf("expected disabled notice, got %q", transport.lastSent())
	}
}

func TestGenerationFailureKeepsHistory(t *testing.T) {
	b, transport, gateway, sessions := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, text(1, "привет"))
	gateway.err = errors.New("network down")
	b.Dispatch(ctx, text(1, "ещё раз"))

	if transport.lastSent() != msgGenerationFailed {
		t.Fatalf("expected failure notice, got %q", transport.lastSent())
	}
	if h := history(t, sessions, 1); len(h) != 1 {
		t.Fatalf("failed turn must not mutate history: %+v", h)
	}
}

func TestRestartNoticeOnFirstContact(t *testing.T) {
	b, transport, _, _ := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, command(1, "help"))
	if len(transport.sent) < 2 || transport.sent[0] != msgRestarted {
		t.Fatalf("expected restart notice before the reply, got %v", transport.sent)
	}

	transport.sent = nil
	b.Dispatch(ctx, command(1, "help"))
	if len(transport.sent) != 1 {
		t.Fatalf("restart notice must not repeat, got %v", transport.sent)
	}
}

func TestModelInfoRendersCatalogEntry(t *testing.T) {
	b, transport, _, _ := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, command(1, "model_info"))
	got := transport.lastSent()
	if !strings.Contains(got, "GigaChat Lite") || !strings.Contains(got, "8192") {
		t.Fatalf("unexpected model info: %q", got)
	}
}

func TestPresetsKeyboard(t *testing.T) {
	b, transport, _, _ := newTestBot("ок")
	ctx := context.Background()

	b.Dispatch(ctx, command(1, "presets"))
	if len(transport.keyboards) != 1 {
		t.Fatal("expected one keyboard")
	}
	buttons := transport.keyboards[0]
	if len(buttons) != 3 || buttons[0].Data != "GigaChat" || buttons[2].Label != "GigaChat Pro" {
		t.Fatalf("unexpected keyboard: %+v", buttons)
	}
}

func TestReplyIsEscapedForMarkdown(t *testing.T) {
	b, transport, _, _ := newTestBot("a_b*c")
	ctx := context.Background()

	b.Dispatch(ctx, text(1, "привет"))
	last := transport.markdown[len(transport.markdown)-1]
	if last != `a\_b\*c` {
		t.Fatalf("reply not escaped: %q", last)
	}
}
