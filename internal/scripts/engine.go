package scripts

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/deepchat-dev/deepchat/internal/chat"
)

// Event types emitted while a script runs
const (
	EventStart    = "start"    // script begins; Text is the description
	EventStep     = "step"     // a step begins; Step/Total are set
	EventSystem   = "system"   // system context injected; Text is the content
	EventPrompt   = "prompt"   // prompt sent to the model; Text is the prompt
	EventResponse = "response" // model replied; Text is the response
	EventInput    = "input"    // user input required; Text is the input prompt
	EventPaused   = "paused"   // waiting for the user to continue
	EventDone     = "done"     // script completed
	EventError    = "error"    // script failed; Err is set
)

// Event reports script progress to the caller
type Event struct {
	Type  string
	Text  string
	Step  int // 1-based step number
	Total int
	Err   error
}

// Engine executes a script against a chat session, emitting events over a
// channel. Input and Continue feed pending input/paused steps; the caller
// drives both from its own UI loop.
type Engine struct {
	session *chat.Session
	input   chan string
	resume  chan struct{}
}

// NewEngine creates an engine bound to a session
func NewEngine(session *chat.Session) *Engine {
	return &Engine{
		session: session,
		input:   make(chan string),
		resume:  make(chan struct{}),
	}
}

// Input supplies the value for a pending input step
func (e *Engine) Input(value string) {
	e.input <- value
}

// Continue resumes a script paused after a step with auto_continue: false
func (e *Engine) Continue() {
	e.resume <- struct{}{}
}

var varPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// substitute replaces {{var}} patterns with values from vars
func substitute(text string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := varPattern.FindStringSubmatch(match)[1]
		if value, ok := vars[name]; ok {
			return value
		}
		return match
	})
}

// evaluateCondition supports "a == b", "a != b" and bare-variable
// truthiness after {{var}} substitution. Bare names are looked up in vars.
func evaluateCondition(expr string, vars map[string]string) (bool, error) {
	expr = strings.TrimSpace(substitute(expr, vars))
	if expr == "" {
		return false, ErrInvalidCondition
	}

	resolve := func(operand string) string {
		operand = strings.TrimSpace(operand)
		if unquoted := strings.Trim(operand, `"'`); unquoted != operand {
			return unquoted
		}
		if value, ok := vars[operand]; ok {
			return value
		}
		return operand
	}

	if parts := strings.SplitN(expr, "!=", 2); len(parts) == 2 {
		return resolve(parts[0]) != resolve(parts[1]), nil
	}
	if parts := strings.SplitN(expr, "==", 2); len(parts) == 2 {
		return resolve(parts[0]) == resolve(parts[1]), nil
	}

	// Bare variable: truthy when set, non-empty and not "false"
	value := resolve(expr)
	return value != "" && value != "false" && value != "0", nil
}

// Run executes the script in a goroutine and returns its event channel.
// The channel is closed when the script completes, fails or is cancelled.
func (e *Engine) Run(ctx context.Context, def *ScriptDefinition, vars map[string]string) <-chan Event {
	events := make(chan Event)

	merged := map[string]string{}
	for k, v := range def.Variables {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}

	go func() {
		defer close(events)

		emit := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit(Event{Type: EventStart, Text: def.Description}) {
			return
		}

		// Work on a copy: condition branches are injected inline
		steps := make([]ScriptStep, len(def.Steps))
		copy(steps, def.Steps)

		i := 0
		for i < len(steps) {
			select {
			case <-ctx.Done():
				emit(Event{Type: EventError, Err: ErrScriptAborted})
				return
			default:
			}

			step := steps[i]
			if !emit(Event{Type: EventStep, Step: i + 1, Total: len(steps)}) {
				return
			}

			switch step.Kind() {
			case KindPrompt:
				prompt := substitute(step.Prompt, merged)

				if step.System {
					e.session.Conversation().AppendSystem(prompt)
					if !emit(Event{Type: EventSystem, Text: prompt}) {
						return
					}
					break
				}

				if !emit(Event{Type: EventPrompt, Text: prompt}) {
					return
				}

				reply, err := e.session.Chat(ctx, prompt)
				if err != nil {
					emit(Event{Type: EventError, Err: err})
					return
				}
				if step.StoreAs != "" {
					merged[step.StoreAs] = reply
				}
				if !emit(Event{Type: EventResponse, Text: reply}) {
					return
				}

				if step.AutoContinue != nil && !*step.AutoContinue {
					if !emit(Event{Type: EventPaused}) {
						return
					}
					select {
					case <-e.resume:
					case <-ctx.Done():
						emit(Event{Type: EventError, Err: ErrScriptAborted})
						return
					}
				}

			case KindInput:
				if !emit(Event{Type: EventInput, Text: substitute(step.Input, merged)}) {
					return
				}
				select {
				case value := <-e.input:
					if step.StoreAs != "" {
						merged[step.StoreAs] = value
					}
				case <-ctx.Done():
					emit(Event{Type: EventError, Err: ErrScriptAborted})
					return
				}

			case KindCondition:
				met, err := evaluateCondition(step.When, merged)
				if err != nil {
					emit(Event{Type: EventError, Err: fmt.Errorf("step %d: %w", i+1, err)})
					return
				}
				branch := step.IfFalse
				if met {
					branch = step.IfTrue
				}
				// Replace the condition step with the chosen branch
				rest := append([]ScriptStep{}, steps[i+1:]...)
				steps = append(append(steps[:i], branch...), rest...)
				continue
			}

			i++
		}

		emit(Event{Type: EventDone})
	}()

	return events
}
