package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/deepchat-dev/deepchat/internal/chat"
	"github.com/deepchat-dev/deepchat/internal/config"
	"github.com/deepchat-dev/deepchat/internal/llm"
	"github.com/deepchat-dev/deepchat/internal/markdown"
	"github.com/deepchat-dev/deepchat/internal/scripts"
	"github.com/deepchat-dev/deepchat/internal/tui/components"
	"github.com/deepchat-dev/deepchat/internal/tui/theme"
)

const version = "0.1.0"

// Message types for Bubble Tea
type responseMsg struct {
	reply string
	err   error
}

type streamChanMsg struct {
	chunks <-chan llm.StreamChunk
}

type streamChunkMsg struct {
	text string
}

type streamDoneMsg struct{}

type streamErrMsg struct {
	err error
}

type scriptEventMsg struct {
	event scripts.Event
	ok    bool
}

type scriptInputSentMsg struct{}

// scriptCommands exposes saved scripts to the autocomplete popup
type scriptCommands struct {
	registry *scripts.Registry
}

func (s scriptCommands) GetScriptCommands() []components.Command {
	var cmds []components.Command
	for _, def := range s.registry.List() {
		cmds = append(cmds, components.Command{
			Name:        "/script " + def.Name,
			Description: def.Description,
			IsScript:    true,
		})
	}
	return cmds
}

// Model is the main TUI model
type Model struct {
	session  *chat.Session
	registry *scripts.Registry

	alias    string
	modelCfg config.ModelConfig

	// Components
	header      *components.Header
	messages    *components.Messages
	editor      *components.Editor
	status      *components.Status
	help        *components.HelpDialog
	suggestions *components.Suggestions
	spinner     spinner.Model

	// State
	width            int
	height           int
	ready            bool
	thinking         bool
	showHelp         bool
	streamingContent string                    // Accumulates streaming deltas
	chunkChan        <-chan llm.StreamChunk    // Channel for the in-flight stream
	cancelStream     context.CancelFunc

	// Script state
	engine         *scripts.Engine
	scriptEvents   <-chan scripts.Event
	scriptCancel   context.CancelFunc
	awaitingInput  bool
	awaitingResume bool
}

// New creates a new TUI model
func New(session *chat.Session, resolved *config.Resolved, registry *scripts.Registry) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	status := components.NewStatus(80)
	status.SetModel(resolved.Alias)

	suggestions := components.NewSuggestions()
	if registry != nil {
		suggestions.SetCommandProvider(scriptCommands{registry: registry})
	}

	return Model{
		session:     session,
		registry:    registry,
		alias:       resolved.Alias,
		modelCfg:    resolved.Model,
		header:      components.NewHeader(80, version, resolved.Model.URL),
		status:      status,
		help:        components.NewHelpDialog(),
		suggestions: suggestions,
		spinner:     sp,
	}
}

// welcomeMessage returns the initial welcome content
func welcomeMessage() string {
	return `
    ██████╗ ███████╗███████╗██████╗  ██████╗██╗  ██╗ █████╗ ████████╗
    ██╔══██╗██╔════╝██╔════╝██╔══██╗██╔════╝██║  ██║██╔══██╗╚══██╔══╝
    ██║  ██║█████╗  █████╗  ██████╔╝██║     ███████║███████║   ██║
    ██║  ██║██╔══╝  ██╔══╝  ██╔═══╝ ██║     ██╔══██║██╔══██║   ██║
    ██████╔╝███████╗███████╗██║     ╚██████╗██║  ██║██║  ██║   ██║
    ╚═════╝ ╚══════╝╚══════╝╚═╝      ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝`
}

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+h":
			m.showHelp = !m.showHelp
			return m, nil

		case "ctrl+l":
			m.messages.Clear()
			m.session.Conversation().Reset()
			return m, nil

		case "ctrl+y":
			return m.copyLastCodeBlock()

		case "esc":
			if m.suggestions.IsVisible() {
				m.suggestions.Hide()
			}
			return m, nil

		case "tab":
			if m.suggestions.IsVisible() {
				selected := m.suggestions.GetSelected()
				if selected != "" {
					m.editor.SetValue(selected)
					m.suggestions.Hide()
				}
				return m, nil
			}

		case "up":
			if m.suggestions.IsVisible() {
				m.suggestions.MoveUp()
				return m, nil
			}

		case "down":
			if m.suggestions.IsVisible() {
				m.suggestions.MoveDown()
				return m, nil
			}

		case "enter":
			if m.suggestions.IsVisible() {
				selected := m.suggestions.GetSelected()
				if selected != "" {
					m.editor.Reset()
					m.suggestions.Hide()
					return m.handleCommand(selected)
				}
			}

			// A running script is waiting for user input
			if m.awaitingInput {
				value := strings.TrimSpace(m.editor.Value())
				if value == "" {
					return m, nil
				}
				m.editor.Reset()
				m.editor.SetPlaceholder("Send a message...")
				m.awaitingInput = false
				m.messages.AddMessage(components.Message{Role: "user", Content: value})
				engine := m.engine
				return m, tea.Batch(
					func() tea.Msg {
						engine.Input(value)
						return scriptInputSentMsg{}
					},
					readNextScriptEvent(m.scriptEvents),
				)
			}

			// A running script is paused between steps
			if m.awaitingResume {
				m.awaitingResume = false
				engine := m.engine
				return m, tea.Batch(
					func() tea.Msg {
						engine.Continue()
						return scriptInputSentMsg{}
					},
					readNextScriptEvent(m.scriptEvents),
				)
			}

			if !m.thinking && strings.TrimSpace(m.editor.Value()) != "" {
				userMsg := strings.TrimSpace(m.editor.Value())
				m.editor.Reset()
				m.suggestions.Hide()

				if strings.HasPrefix(userMsg, "/") {
					return m.handleCommand(userMsg)
				}

				return m.submit(userMsg)
			}

		case "pgup", "pgdown":
			vp := m.messages.GetViewport()
			var cmd tea.Cmd
			*vp, cmd = vp.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		statusHeight := 2
		editorHeight := 5
		messagesHeight := msg.Height - headerHeight - statusHeight - editorHeight

		if !m.ready {
			m.messages = components.NewMessages(msg.Width, messagesHeight)
			m.messages.SetWelcome(welcomeMessage())
			m.editor = components.NewEditor(msg.Width, editorHeight)
			m.editor.Reset()
			m.ready = true
		} else {
			m.messages.SetSize(msg.Width, messagesHeight)
			m.editor.SetSize(msg.Width, editorHeight)
		}

		m.header.SetWidth(msg.Width)
		m.status.SetWidth(msg.Width)

	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case responseMsg:
		m.thinking = false
		m.status.SetThinking(false)

		if msg.err != nil {
			m.messages.AddMessage(components.Message{
				Role:    "error",
				Content: describeError(msg.err),
			})
		} else if msg.reply != "" {
			m.messages.AddMessage(components.Message{
				Role:    "assistant",
				Content: msg.reply,
			})
		}

	// Streaming message handlers
	case streamChanMsg:
		m.chunkChan = msg.chunks
		m.streamingContent = ""
		m.status.SetStreaming(true)
		cmds = append(cmds, readNextChunk(m.chunkChan))

	case streamChunkMsg:
		if m.chunkChan != nil {
			m.streamingContent += msg.text
			m.messages.UpdateStreaming(m.streamingContent)
			cmds = append(cmds, readNextChunk(m.chunkChan))
		}

	case streamDoneMsg:
		if m.chunkChan != nil {
			if m.streamingContent != "" {
				m.messages.AddMessage(components.Message{
					Role:    "assistant",
					Content: m.streamingContent,
				})
			}
			m.endStream()
		}

	case streamErrMsg:
		if m.chunkChan != nil {
			partial := m.streamingContent
			m.endStream()
			m.session.Salvage(partial)
			if partial != "" {
				m.messages.AddMessage(components.Message{
					Role:    "assistant",
					Content: partial,
				})
			}
			m.messages.AddMessage(components.Message{
				Role:    "error",
				Content: describeError(msg.err),
			})
		}

	// Script event handlers
	case scriptEventMsg:
		return m.handleScriptEvent(msg)

	case scriptInputSentMsg:
		// Input or resume was delivered to the engine; nothing to do
	}

	// Update editor if not thinking - only pass key messages
	if !m.thinking && m.editor != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			cmds = append(cmds, cmd)

			m.suggestions.Filter(m.editor.Value())
		}
	}

	// Update messages viewport for scrolling
	if m.messages != nil {
		vp := m.messages.GetViewport()
		var cmd tea.Cmd
		*vp, cmd = vp.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit sends one user turn, streaming or blocking per the model config
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	m.messages.AddMessage(components.Message{
		Role:    "user",
		Content: text,
	})
	m.thinking = true
	m.status.SetThinking(true)

	session := m.session
	if m.modelCfg.Stream {
		ctx, cancel := context.WithCancel(context.Background())
		m.cancelStream = cancel
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			chunks, err := session.ChatStream(ctx, text)
			if err != nil {
				return responseMsg{err: err}
			}
			return streamChanMsg{chunks: chunks}
		})
	}

	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		reply, err := session.Chat(context.Background(), text)
		return responseMsg{reply: reply, err: err}
	})
}

// endStream tears down the in-flight stream state
func (m *Model) endStream() {
	m.thinking = false
	m.status.SetThinking(false)
	m.status.SetStreaming(false)
	m.streamingContent = ""
	m.chunkChan = nil
	if m.cancelStream != nil {
		m.cancelStream()
		m.cancelStream = nil
	}
	m.messages.ClearStreaming()
}

// readNextChunk reads the next chunk from the stream
func readNextChunk(chunks <-chan llm.StreamChunk) tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-chunks
		if !ok {
			return streamDoneMsg{}
		}
		if chunk.Error != nil {
			return streamErrMsg{err: chunk.Error}
		}
		if chunk.Done {
			return streamDoneMsg{}
		}
		return streamChunkMsg{text: chunk.Text}
	}
}

// readNextScriptEvent reads the next event from a running script
func readNextScriptEvent(events <-chan scripts.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		return scriptEventMsg{event: event, ok: ok}
	}
}

// handleScriptEvent advances the UI for one script engine event
func (m Model) handleScriptEvent(msg scriptEventMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		m.thinking = false
		m.status.SetThinking(false)
		m.scriptEvents = nil
		m.engine = nil
		if m.scriptCancel != nil {
			m.scriptCancel()
			m.scriptCancel = nil
		}
		return m, nil
	}

	event := msg.event
	switch event.Type {
	case scripts.EventStart:
		if event.Text != "" {
			m.messages.AddMessage(components.Message{Role: "system", Content: event.Text})
		}

	case scripts.EventStep:
		m.status.SetMessage(fmt.Sprintf("Script step %d/%d", event.Step, event.Total))

	case scripts.EventSystem:
		m.messages.AddMessage(components.Message{Role: "system", Content: "Context: " + event.Text})

	case scripts.EventPrompt:
		m.messages.AddMessage(components.Message{Role: "user", Content: event.Text})
		m.thinking = true
		m.status.SetThinking(true)

	case scripts.EventResponse:
		m.thinking = false
		m.status.SetThinking(false)
		m.messages.AddMessage(components.Message{Role: "assistant", Content: event.Text})

	case scripts.EventInput:
		m.thinking = false
		m.status.SetThinking(false)
		m.awaitingInput = true
		m.editor.SetPlaceholder(event.Text)
		m.messages.AddMessage(components.Message{Role: "system", Content: event.Text})
		// Do not read the next event until the input is delivered
		return m, nil

	case scripts.EventPaused:
		m.thinking = false
		m.status.SetThinking(false)
		m.awaitingResume = true
		m.messages.AddMessage(components.Message{Role: "system", Content: "Script paused. Press Enter to continue."})
		return m, nil

	case scripts.EventDone:
		m.thinking = false
		m.status.SetThinking(false)
		m.status.SetMessage("")
		m.messages.AddMessage(components.Message{Role: "system", Content: "Script finished."})

	case scripts.EventError:
		m.thinking = false
		m.status.SetThinking(false)
		m.status.SetMessage("")
		m.messages.AddMessage(components.Message{Role: "error", Content: describeError(event.Err)})
	}

	if m.scriptEvents != nil {
		return m, readNextScriptEvent(m.scriptEvents)
	}
	return m, nil
}

// copyLastCodeBlock copies the last fenced code block of the most recent
// assistant message to the system clipboard
func (m Model) copyLastCodeBlock() (tea.Model, tea.Cmd) {
	content, ok := m.messages.LastAssistant()
	if !ok {
		m.messages.AddMessage(components.Message{Role: "system", Content: "No assistant message to copy from."})
		return m, nil
	}

	block, ok := markdown.LastBlock(content)
	if !ok {
		m.messages.AddMessage(components.Message{Role: "system", Content: "No code block found in the last response."})
		return m, nil
	}

	if err := markdown.CopyToClipboard(block); err != nil {
		m.messages.AddMessage(components.Message{Role: "error", Content: "Copy failed: " + err.Error()})
		return m, nil
	}

	m.messages.AddMessage(components.Message{Role: "system", Content: "Code block copied to clipboard."})
	return m, nil
}

// newProvider builds an API client for a resolved model entry
func newProvider(r *config.Resolved) *llm.Client {
	return llm.NewClient(llm.Options{
		APIKey:      r.Model.APIKey,
		Model:       r.Model.Name,
		Endpoint:    r.Model.URL,
		MaxTokens:   r.Model.MaxTokens,
		Temperature: r.Model.Temperature,
		Extra:       r.Model.Extra,
	})
}

// handleCommand processes slash commands
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "/help":
		m.showHelp = true
		return m, nil

	case "/clear":
		m.messages.Clear()
		m.session.Conversation().Reset()
		m.messages.AddMessage(components.Message{
			Role:    "system",
			Content: "Conversation cleared.",
		})
		return m, nil

	case "/history":
		transcript := m.session.Conversation().Transcript()
		if transcript == "" {
			transcript = "No messages yet."
		}
		m.messages.AddMessage(components.Message{
			Role:    "system",
			Content: "Transcript:\n" + transcript,
		})
		return m, nil

	case "/list":
		cfg := config.Get()
		aliases := config.ModelAliases()
		var sb strings.Builder
		sb.WriteString("Configured models:\n")
		if len(aliases) == 0 {
			sb.WriteString("  none - add a models entry in " + config.ConfigPath() + "\n")
		}
		for _, alias := range aliases {
			marker := "  "
			if alias == m.alias {
				marker = "› "
			}
			sb.WriteString(marker + alias)
			if desc := cfg.Models[alias].Description; desc != "" {
				sb.WriteString(" - " + desc)
			}
			sb.WriteString("\n")
		}
		m.messages.AddMessage(components.Message{
			Role:    "system",
			Content: strings.TrimRight(sb.String(), "\n"),
		})
		return m, nil

	case "/model":
		if len(parts) < 2 {
			m.messages.AddMessage(components.Message{
				Role:    "error",
				Content: "Usage: /model <name>  (see /list)",
			})
			return m, nil
		}
		return m.switchModel(parts[1])

	case "/file":
		if len(parts) < 2 {
			m.messages.AddMessage(components.Message{
				Role:    "error",
				Content: "Usage: /file <path>",
			})
			return m, nil
		}
		path := strings.Join(parts[1:], " ")
		content, err := os.ReadFile(path)
		if err != nil {
			m.messages.AddMessage(components.Message{
				Role:    "error",
				Content: "Cannot read file: " + err.Error(),
			})
			return m, nil
		}
		m.session.Conversation().AttachFile(filepath.Base(path), string(content))
		m.messages.AddMessage(components.Message{
			Role:    "system",
			Content: fmt.Sprintf("Attached %s (%d bytes).", filepath.Base(path), len(content)),
		})
		return m, nil

	case "/stop":
		return m.stopStream()

	case "/script":
		return m.handleScriptCommand(parts[1:])

	case "/config":
		return m.handleConfigCommand(parts[1:])

	case "/quit", "/exit", "/q":
		return m, tea.Quit

	default:
		m.messages.AddMessage(components.Message{
			Role:    "error",
			Content: "Unknown command: " + cmd + "\nType /help for available commands.",
		})
		return m, nil
	}
}

// switchModel resolves an alias and swaps the session provider in place.
// The conversation history carries over to the new model.
func (m Model) switchModel(alias string) (tea.Model, tea.Cmd) {
	resolved, err := config.Resolve(alias)
	if err != nil {
		m.messages.AddMessage(components.Message{
			Role:    "error",
			Content: describeError(err),
		})
		return m, nil
	}

	m.session.SetProvider(newProvider(resolved), resolved.Alias)
	m.alias = resolved.Alias
	m.modelCfg = resolved.Model
	m.status.SetModel(resolved.Alias)
	m.header.SetEndpoint(resolved.Model.URL)

	if err := config.SetLastActiveModel(resolved.Alias); err == nil {
		m.messages.AddMessage(components.Message{
			Role:    "system",
			Content: "Switched to " + resolved.Alias + ".",
		})
	} else {
		m.messages.AddMessage(components.Message{
			Role:    "system",
			Content: "Switched to " + resolved.Alias + " (not saved: " + err.Error() + ").",
		})
	}
	return m, nil
}

// stopStream cancels an in-flight streaming response. The partial text is
// kept in the conversation so the exchange is not lost.
func (m Model) stopStream() (tea.Model, tea.Cmd) {
	if m.chunkChan == nil {
		m.messages.AddMessage(components.Message{
			Role:    "system",
			Content: "Nothing to stop.",
		})
		return m, nil
	}

	partial := m.streamingContent
	m.endStream()
	m.session.Salvage(partial)
	if partial != "" {
		m.messages.AddMessage(components.Message{
			Role:    "assistant",
			Content: partial,
		})
	}
	m.messages.AddMessage(components.Message{
		Role:    "system",
		Content: "Response stopped.",
	})
	return m, nil
}

// handleScriptCommand lists scripts or starts one
func (m Model) handleScriptCommand(args []string) (tea.Model, tea.Cmd) {
	if m.registry == nil {
		m.messages.AddMessage(components.Message{
			Role:    "error",
			Content: "Scripts are not available.",
		})
		return m, nil
	}

	if len(args) == 0 {
		defs := m.registry.List()
		var sb strings.Builder
		sb.WriteString("Saved scripts:\n")
		if len(defs) == 0 {
			sb.WriteString("  none - put .yaml files in .deepchat/scripts/\n")
		}
		for _, def := range defs {
			sb.WriteString("  " + def.Name)
			if def.Description != "" {
				sb.WriteString(" - " + def.Description)
			}
			sb.WriteString("\n")
		}
		m.messages.AddMessage(components.Message{
			Role:    "system",
			Content: strings.TrimRight(sb.String(), "\n"),
		})
		return m, nil
	}

	if m.scriptEvents != nil {
		m.messages.AddMessage(components.Message{
			Role:    "error",
			Content: "A script is already running.",
		})
		return m, nil
	}

	name := args[0]
	def, ok := m.registry.Get(name)
	if !ok {
		m.messages.AddMessage(components.Message{
			Role:    "error",
			Content: "Unknown script: " + name + "  (see /script)",
		})
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.scriptCancel = cancel
	m.engine = scripts.NewEngine(m.session)
	m.scriptEvents = m.engine.Run(ctx, def, nil)
	m.thinking = true
	m.status.SetThinking(true)
	return m, tea.Batch(m.spinner.Tick, readNextScriptEvent(m.scriptEvents))
}

// handleConfigCommand shows or mutates configuration from inside the chat
func (m Model) handleConfigCommand(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		keys := config.ListKeys()
		var sb strings.Builder
		sb.WriteString("Configuration:\n")
		sb.WriteString(fmt.Sprintf("  Config file: %s\n\n", config.ConfigPath()))

		if len(keys) == 0 {
			sb.WriteString("  No keys configured.\n")
		} else {
			for k, v := range keys {
				sb.WriteString(fmt.Sprintf("  %s: %s\n", k, v))
			}
		}
		sb.WriteString("\nUsage:\n")
		sb.WriteString("  /config set <key> <value>  - Set a config value\n")
		sb.WriteString("  /config delete <key>       - Delete a config value\n")
		sb.WriteString("\nKeys: api_key, url, model, default_model, system_message")

		m.messages.AddMessage(components.Message{
			Role:    "system",
			Content: sb.String(),
		})
		return m, nil
	}

	subCmd := strings.ToLower(args[0])
	switch subCmd {
	case "set":
		if len(args) < 3 {
			m.messages.AddMessage(components.Message{
				Role:    "error",
				Content: "Usage: /config set <key> <value>",
			})
			return m, nil
		}
		key := args[1]
		value := strings.Join(args[2:], " ")
		if err := config.Set(key, value); err != nil {
			m.messages.AddMessage(components.Message{
				Role:    "error",
				Content: fmt.Sprintf("Failed to set config: %v", err),
			})
		} else {
			m.messages.AddMessage(components.Message{
				Role:    "system",
				Content: fmt.Sprintf("Set %s successfully.", key),
			})
		}
		return m, nil

	case "delete", "remove", "unset":
		if len(args) < 2 {
			m.messages.AddMessage(components.Message{
				Role:    "error",
				Content: "Usage: /config delete <key>",
			})
			return m, nil
		}
		key := args[1]
		if err := config.Delete(key); err != nil {
			m.messages.AddMessage(components.Message{
				Role:    "error",
				Content: fmt.Sprintf("Failed to delete config: %v", err),
			})
		} else {
			m.messages.AddMessage(components.Message{
				Role:    "system",
				Content: fmt.Sprintf("Deleted %s.", key),
			})
		}
		return m, nil

	default:
		m.messages.AddMessage(components.Message{
			Role:    "error",
			Content: "Unknown config subcommand: " + subCmd + "\nUse: set, delete",
		})
		return m, nil
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	t := theme.Current

	headerHeight := 2
	statusHeight := 2
	editorHeight := 5
	messagesHeight := m.height - headerHeight - statusHeight - editorHeight

	header := m.header.View()

	messagesView := m.messages.View()
	if m.thinking && m.streamingContent == "" {
		thinkingStyle := lipgloss.NewStyle().Foreground(t.Primary)
		messagesView = lipgloss.NewStyle().
			Height(messagesHeight).
			Render(messagesView + "\n" + thinkingStyle.Render(m.spinner.View()+" Thinking..."))
	} else {
		messagesView = lipgloss.NewStyle().
			Height(messagesHeight).
			Render(messagesView)
	}

	suggestions := ""
	if m.suggestions.IsVisible() {
		m.suggestions.SetWidth(m.width)
		suggestions = m.suggestions.View()
	}

	editor := m.editor.View()
	status := m.status.View()

	var view string
	if suggestions != "" {
		view = lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			messagesView,
			suggestions,
			editor,
			status,
		)
	} else {
		view = lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			messagesView,
			editor,
			status,
		)
	}

	if m.showHelp {
		overlay := m.help.View()
		view = components.PlaceOverlay(overlay, view, m.width, m.height)
	}

	return lipgloss.NewStyle().
		Background(t.Background).
		Width(m.width).
		Height(m.height).
		Render(view)
}
