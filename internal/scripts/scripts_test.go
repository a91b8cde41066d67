package scripts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/deepchat-dev/deepchat/internal/chat"
	"github.com/deepchat-dev/deepchat/internal/llm"
)

func TestScriptValidate(t *testing.T) {
	tests := []struct {
		name    string
		script  ScriptDefinition
		wantErr error
	}{
		{
			name: "valid",
			script: ScriptDefinition{
				Name:  "review",
				Steps: []ScriptStep{{Prompt: "Review this."}},
			},
		},
		{
			name:    "missing name",
			script:  ScriptDefinition{Steps: []ScriptStep{{Prompt: "x"}}},
			wantErr: ErrMissingName,
		},
		{
			name:    "no steps",
			script:  ScriptDefinition{Name: "empty"},
			wantErr: ErrNoSteps,
		},
		{
			name: "empty step",
			script: ScriptDefinition{
				Name:  "bad",
				Steps: []ScriptStep{{Prompt: "ok"}, {}},
			},
			wantErr: ErrEmptyStep,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.script.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStepKind(t *testing.T) {
	tests := []struct {
		name string
		step ScriptStep
		want StepKind
	}{
		{name: "prompt", step: ScriptStep{Prompt: "hi"}, want: KindPrompt},
		{name: "input", step: ScriptStep{Input: "Enter value:"}, want: KindInput},
		{name: "condition", step: ScriptStep{When: "a == b"}, want: KindCondition},
		{name: "empty", step: ScriptStep{}, want: KindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.step.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubstitute(t *testing.T) {
	vars := map[string]string{"lang": "Go", "task": "refactor"}

	tests := []struct {
		in   string
		want string
	}{
		{in: "Help me {{task}} this {{lang}} code", want: "Help me refactor this Go code"},
		{in: "no variables", want: "no variables"},
		{in: "unknown {{missing}} stays", want: "unknown {{missing}} stays"},
		{in: "{{lang}}{{lang}}", want: "GoGo"},
	}

	for _, tt := range tests {
		if got := substitute(tt.in, vars); got != tt.want {
			t.Errorf("substitute(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEvaluateCondition(t *testing.T) {
	vars := map[string]string{"verdict": "pass", "empty": "", "flag": "true"}

	tests := []struct {
		expr    string
		want    bool
		wantErr bool
	}{
		{expr: "{{verdict}} == pass", want: true},
		{expr: "{{verdict}} == fail", want: false},
		{expr: "{{verdict}} != fail", want: true},
		{expr: `verdict == "pass"`, want: true},
		{expr: "flag", want: true},
		{expr: "empty", want: false},
		{expr: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := evaluateCondition(tt.expr, vars)
			if (err != nil) != tt.wantErr {
				t.Fatalf("evaluateCondition(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("evaluateCondition(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func writeScript(t *testing.T, dir, file, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
}

func TestLoaderAndRegistry(t *testing.T) {
	projectDir := filepath.Join(t.TempDir(), "scripts")
	globalDir := filepath.Join(t.TempDir(), "scripts")

	writeScript(t, projectDir, "review.yaml", `
name: review
description: project-local review script
steps:
  - prompt: "Review the attached code."
`)
	writeScript(t, globalDir, "review.yaml", `
name: review
description: global review script
steps:
  - prompt: "Global review."
`)
	writeScript(t, globalDir, "summarize.yml", `
name: summarize
steps:
  - prompt: "Summarize."
`)
	writeScript(t, globalDir, "broken.yaml", `name: [not yaml`)
	writeScript(t, globalDir, "notes.txt", "not a script")

	registry := NewRegistryWithPaths([]string{projectDir, globalDir})
	if err := registry.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if registry.Count() != 2 {
		t.Errorf("Count() = %d, want 2", registry.Count())
	}

	// Project scripts shadow global ones with the same name
	review, ok := registry.Get("review")
	if !ok {
		t.Fatal("Get(review) not found")
	}
	if review.Description != "project-local review script" {
		t.Errorf("review description = %q, want the project-local one", review.Description)
	}

	list := registry.List()
	if len(list) != 2 || list[0].Name != "review" || list[1].Name != "summarize" {
		t.Errorf("List() = %v, want review then summarize", list)
	}

	if _, ok := registry.Get("missing"); ok {
		t.Error("Get(missing) should not be found")
	}
}

// scriptedProvider returns canned responses in order
type scriptedProvider struct {
	replies []string
	calls   int
}

func (p *scriptedProvider) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	if p.calls >= len(p.replies) {
		return "", fmt.Errorf("unexpected call %d", p.calls)
	}
	reply := p.replies[p.calls]
	p.calls++
	return reply, nil
}

func (p *scriptedProvider) GenerateStream(ctx context.Context, messages []llm.Message) (<-chan llm.StreamChunk, error) {
	return nil, fmt.Errorf("not used")
}

func collectEvents(events <-chan Event) []Event {
	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	return got
}

func eventsOfType(events []Event, typ string) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func TestEngineRun(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"looks good", "done"}}
	sess := chat.Start(provider, "deepseek-chat", "system")

	def := &ScriptDefinition{
		Name:      "review",
		Variables: map[string]string{"lang": "Go"},
		Steps: []ScriptStep{
			{Prompt: "You are reviewing {{lang}} code.", System: true},
			{Prompt: "Review the code.", StoreAs: "verdict"},
			{Prompt: "Summarize: {{verdict}}"},
		},
	}

	engine := NewEngine(sess)
	got := collectEvents(engine.Run(context.Background(), def, nil))

	if len(eventsOfType(got, EventError)) != 0 {
		t.Fatalf("unexpected error events: %+v", got)
	}
	if len(eventsOfType(got, EventDone)) != 1 {
		t.Fatal("script did not complete")
	}

	systems := eventsOfType(got, EventSystem)
	if len(systems) != 1 || systems[0].Text != "You are reviewing Go code." {
		t.Errorf("system events = %+v", systems)
	}

	prompts := eventsOfType(got, EventPrompt)
	if len(prompts) != 2 {
		t.Fatalf("prompt events = %d, want 2", len(prompts))
	}
	// The stored response is substituted into the later prompt
	if prompts[1].Text != "Summarize: looks good" {
		t.Errorf("second prompt = %q, want the stored verdict substituted", prompts[1].Text)
	}

	responses := eventsOfType(got, EventResponse)
	if len(responses) != 2 || responses[0].Text != "looks good" || responses[1].Text != "done" {
		t.Errorf("response events = %+v", responses)
	}
}

func TestEngineInputStep(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"ok"}}
	sess := chat.Start(provider, "deepseek-chat", "system")

	def := &ScriptDefinition{
		Name: "ask",
		Steps: []ScriptStep{
			{Input: "Which file?", StoreAs: "file"},
			{Prompt: "Explain {{file}}."},
		},
	}

	engine := NewEngine(sess)
	events := engine.Run(context.Background(), def, nil)

	var got []Event
	for ev := range events {
		if ev.Type == EventInput {
			if ev.Text != "Which file?" {
				t.Errorf("input prompt = %q", ev.Text)
			}
			go engine.Input("main.go")
		}
		got = append(got, ev)
	}

	prompts := eventsOfType(got, EventPrompt)
	if len(prompts) != 1 || prompts[0].Text != "Explain main.go." {
		t.Errorf("prompt events = %+v, want the input value substituted", prompts)
	}
	if len(eventsOfType(got, EventDone)) != 1 {
		t.Error("script did not complete")
	}
}

func TestEngineCondition(t *testing.T) {
	tests := []struct {
		name       string
		verdict    string
		wantPrompt string
	}{
		{name: "true branch", verdict: "pass", wantPrompt: "Ship it."},
		{name: "false branch", verdict: "fail", wantPrompt: "Fix it."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &scriptedProvider{replies: []string{tt.verdict, "ok"}}
			sess := chat.Start(provider, "deepseek-chat", "system")

			def := &ScriptDefinition{
				Name: "gate",
				Steps: []ScriptStep{
					{Prompt: "Check the code.", StoreAs: "verdict"},
					{
						When:    "{{verdict}} == pass",
						IfTrue:  []ScriptStep{{Prompt: "Ship it."}},
						IfFalse: []ScriptStep{{Prompt: "Fix it."}},
					},
				},
			}

			engine := NewEngine(sess)
			got := collectEvents(engine.Run(context.Background(), def, nil))

			prompts := eventsOfType(got, EventPrompt)
			if len(prompts) != 2 || prompts[1].Text != tt.wantPrompt {
				t.Errorf("prompts = %+v, want second prompt %q", prompts, tt.wantPrompt)
			}
		})
	}
}

func TestEnginePauseAndContinue(t *testing.T) {
	autoContinue := false
	provider := &scriptedProvider{replies: []string{"first", "second"}}
	sess := chat.Start(provider, "deepseek-chat", "system")

	def := &ScriptDefinition{
		Name: "paused",
		Steps: []ScriptStep{
			{Prompt: "Step one.", AutoContinue: &autoContinue},
			{Prompt: "Step two."},
		},
	}

	engine := NewEngine(sess)
	events := engine.Run(context.Background(), def, nil)

	var got []Event
	for ev := range events {
		if ev.Type == EventPaused {
			go engine.Continue()
		}
		got = append(got, ev)
	}

	if len(eventsOfType(got, EventPaused)) != 1 {
		t.Error("expected one paused event")
	}
	if len(eventsOfType(got, EventResponse)) != 2 {
		t.Error("both steps should run after Continue()")
	}
	if len(eventsOfType(got, EventDone)) != 1 {
		t.Error("script did not complete")
	}
}

func TestEngineProviderErrorStopsScript(t *testing.T) {
	provider := &scriptedProvider{replies: []string{}} // every call fails
	sess := chat.Start(provider, "deepseek-chat", "system")

	def := &ScriptDefinition{
		Name:  "failing",
		Steps: []ScriptStep{{Prompt: "Hello."}, {Prompt: "Never reached."}},
	}

	engine := NewEngine(sess)
	got := collectEvents(engine.Run(context.Background(), def, nil))

	if len(eventsOfType(got, EventError)) != 1 {
		t.Fatalf("events = %+v, want one error event", got)
	}
	if len(eventsOfType(got, EventDone)) != 0 {
		t.Error("failed script must not emit done")
	}
	if len(eventsOfType(got, EventPrompt)) != 1 {
		t.Error("the second step must not run after a failure")
	}
}
