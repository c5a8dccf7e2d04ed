// Package tui wires the triage queue together: the windowed list, the
// undo manager, the toast, and the review service. Components communicate
// through typed messages carrying item IDs; this controller resolves IDs
// against the authoritative collection when a message arrives, so a
// message produced before a mutation can never act on a stale snapshot.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/sahilm/fuzzy"

	"github.com/sift-sh/sift/internal/config"
	"github.com/sift-sh/sift/internal/csync"
	"github.com/sift-sh/sift/internal/notification"
	"github.com/sift-sh/sift/internal/pubsub"
	"github.com/sift-sh/sift/internal/review"
	"github.com/sift-sh/sift/internal/tui/components/queue"
	"github.com/sift-sh/sift/internal/tui/components/toast"
	"github.com/sift-sh/sift/internal/tui/exp/list"
	"github.com/sift-sh/sift/internal/tui/styles"
	"github.com/sift-sh/sift/internal/tui/util"
	"github.com/sift-sh/sift/internal/undo"
)

const headerHeight = 1

// chrome rows around the list: header, toast line, status bar.
const chromeHeight = 3

// KeyMap holds the application-level bindings. Navigation bindings live
// in the list component.
type KeyMap struct {
	Approve,
	Reject,
	Defer,
	Undo,
	Filter,
	Cancel,
	Quit key.Binding
}

// DefaultKeyMap returns the stock application bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Approve: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "approve"),
		),
		Reject: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reject"),
		),
		Defer: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "defer"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type itemsLoadedMsg struct {
	items []review.Item
}

type actionDoneMsg struct {
	action undo.Action
}

type undoneMsg struct {
	item  review.Item
	index int
}

type loadErrorMsg struct {
	err error
}

type appModel struct {
	width, height int

	ctx     context.Context
	cfg     *config.Config
	service review.Service

	queue    *csync.Slice[review.Item]
	items    list.List[*queue.Item]
	undo     *undo.Manager
	toast    *toast.Toast
	notifier *notification.Notifier
	keyMap   KeyMap

	triaged int

	filtering   bool
	filterInput textinput.Model
	query       string

	// Per-kind action gate: a key held down auto-repeats much faster than
	// anyone triages.
	lastAction     map[string]time.Time
	debounceWindow time.Duration
	now            func() time.Time

	events <-chan pubsub.Event[review.Item]
	status string
}

// New builds the root model for the triage TUI.
func New(ctx context.Context, cfg *config.Config, service review.Service) tea.Model {
	r := cfg.Review
	thresholds := list.GestureThresholds{
		Distance:    r.Gesture.DistanceThresholdPointer,
		Feedback:    r.Gesture.FeedbackThreshold,
		MaxAngleDeg: r.Gesture.MaxAngleDegrees,
		Velocity:    r.Gesture.VelocityThreshold,
	}
	if r.Gesture.TouchMode {
		thresholds.Distance = r.Gesture.DistanceThresholdTouch
	}

	items := list.New(
		[]*queue.Item{},
		list.WithOverscan(r.Overscan),
		list.WithEstimatedSize(r.EstimatedRows),
		list.WithGap(r.Gap),
		list.WithPadding(r.PaddingStart, r.PaddingEnd),
		list.WithGestureThresholds(thresholds),
	)

	ti := textinput.New()
	ti.Placeholder = "filter titles"

	return &appModel{
		ctx:            ctx,
		cfg:            cfg,
		service:        service,
		queue:          csync.NewSlice[review.Item](),
		items:          items,
		undo:           undo.NewManager(time.Duration(r.UndoWindowMS) * time.Millisecond),
		toast:          toast.New(),
		notifier:       notification.New(!cfg.TUI.DisableNotifications),
		keyMap:         DefaultKeyMap(),
		filterInput:    ti,
		lastAction:     make(map[string]time.Time),
		debounceWindow: time.Duration(r.DebounceMS) * time.Millisecond,
		now:            time.Now,
		events:         service.Subscribe(ctx),
	}
}

// Init implements tea.Model.
func (a *appModel) Init() tea.Cmd {
	return tea.Batch(
		a.items.Init(),
		a.loadItems(),
		a.nextEvent(),
	)
}

// Update implements tea.Model.
func (a *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.toast.SetWidth(msg.Width)
		return a, a.items.SetSize(msg.Width, max(msg.Height-chromeHeight, 1))

	case tea.KeyPressMsg:
		return a.handleKey(msg)

	case tea.MouseClickMsg:
		msg.Y -= headerHeight
		return a.forwardToList(msg)
	case tea.MouseMotionMsg:
		msg.Y -= headerHeight
		return a.forwardToList(msg)
	case tea.MouseReleaseMsg:
		msg.Y -= headerHeight
		return a.forwardToList(msg)
	case tea.MouseWheelMsg:
		return a.forwardToList(msg)

	case itemsLoadedMsg:
		a.queue.SetSlice(msg.items)
		return a, a.applyFilter(a.query)

	case loadErrorMsg:
		slog.Error("Failed to load review queue", "error", msg.err)
		a.status = msg.err.Error()
		return a, nil

	case list.FocusChangedMsg:
		return a, nil

	case list.ItemClickMsg:
		return a, a.items.SetFocusedIndex(msg.Index)

	case list.PrimaryActionMsg:
		return a, a.toggleExpand(msg.ID)

	case list.SwipeMsg:
		switch msg.Direction {
		case list.SwipeRight:
			return a, a.actOn(msg.ID, review.StatusApproved)
		case list.SwipeLeft:
			return a, a.actOn(msg.ID, review.StatusRejected)
		}
		return a, nil

	case actionDoneMsg:
		return a, a.finishAction(msg.action)

	case undoneMsg:
		return a, a.finishUndo(msg)

	case util.InfoMsg:
		a.status = msg.Msg
		return a, nil

	case pubsub.Event[review.Item]:
		return a, tea.Batch(a.handleEvent(msg), a.nextEvent())
	}

	// Countdown ticks and other component-internal messages.
	_, toastCmd := a.toast.Update(msg)
	_, listCmd := a.items.Update(msg)
	return a, tea.Batch(toastCmd, listCmd)
}

// View implements tea.Model.
func (a *appModel) View() string {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}
	s := styles.CurrentTheme().S()

	header := s.Title.Render(fmt.Sprintf(" sift · %d pending", a.queue.Len()))
	toastLine := a.toast.View()

	var statusBar string
	switch {
	case a.filtering:
		statusBar = s.Base.Render(" / " + a.filterInput.View())
	case a.status != "":
		statusBar = s.StatusBar.Render(" " + a.status)
	default:
		statusBar = s.StatusBar.Render(" j/k move · a approve · r reject · d defer · u undo · / filter · q quit")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		a.items.View(),
		toastLine,
		statusBar,
	)
}

func (a *appModel) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if a.filtering {
		switch {
		case key.Matches(msg, a.keyMap.Cancel):
			a.filtering = false
			a.filterInput.SetValue("")
			return a, a.applyFilter("")
		case msg.Code == tea.KeyEnter:
			a.filtering = false
			return a, nil
		}
		var cmd tea.Cmd
		a.filterInput, cmd = a.filterInput.Update(msg)
		return a, tea.Batch(cmd, a.applyFilter(a.filterInput.Value()))
	}

	switch {
	case key.Matches(msg, a.keyMap.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keyMap.Filter):
		a.filtering = true
		return a, a.filterInput.Focus()
	case key.Matches(msg, a.keyMap.Approve):
		return a, a.actOnFocused(review.StatusApproved)
	case key.Matches(msg, a.keyMap.Reject):
		return a, a.actOnFocused(review.StatusRejected)
	case key.Matches(msg, a.keyMap.Defer):
		return a, a.actOnFocused(review.StatusDeferred)
	case key.Matches(msg, a.keyMap.Undo):
		return a, a.undoLast()
	}

	_, cmd := a.items.Update(msg)
	return a, cmd
}

func (a *appModel) forwardToList(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := a.items.Update(msg)
	return a, cmd
}

func (a *appModel) loadItems() tea.Cmd {
	return func() tea.Msg {
		items, err := a.service.ListPending(a.ctx)
		if err != nil {
			return loadErrorMsg{err: fmt.Errorf("failed to load review queue: %w", err)}
		}
		return itemsLoadedMsg{items: items}
	}
}

func (a *appModel) nextEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-a.events
		if !ok {
			return nil
		}
		return event
	}
}

// allow gates an action kind behind the debounce window. Navigation is
// never gated, only domain actions.
func (a *appModel) allow(kind string) bool {
	now := a.now()
	if last, ok := a.lastAction[kind]; ok && now.Sub(last) < a.debounceWindow {
		return false
	}
	a.lastAction[kind] = now
	return true
}

func (a *appModel) actOnFocused(status review.Status) tea.Cmd {
	focused := a.items.FocusedItem()
	if focused == nil {
		return nil
	}
	return a.actOn((*focused).ID(), status)
}

// actOn performs a triage action on the item with the given ID. The ID is
// resolved here, at action time, against the live collection.
func (a *appModel) actOn(id string, status review.Status) tea.Cmd {
	if !a.allow(string(status)) {
		return nil
	}
	index, _, ok := a.findQueued(id)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		updated, err := a.service.SetStatus(a.ctx, id, status, "")
		if err != nil {
			return util.InfoMsg{
				Type: util.InfoTypeError,
				Msg:  fmt.Sprintf("failed to %s item: %v", status, err),
			}
		}
		return actionDoneMsg{action: undo.Action{
			Kind:  status,
			Item:  updated,
			Index: index,
		}}
	}
}

// finishAction runs after the service call succeeded: record the undo
// entry, drop the row, and show the countdown toast.
func (a *appModel) finishAction(action undo.Action) tea.Cmd {
	a.undo.Push(action)
	a.removeQueued(action.Item.ID)
	a.status = ""
	a.triaged++
	if a.queue.Len() == 0 {
		a.notifier.QueueCleared(a.ctx, a.triaged)
	}

	verb := actionVerb(action.Kind)
	toastCmd := a.toast.Show(
		fmt.Sprintf("%s %q · u to undo", verb, action.Item.Title),
		a.undo.Window(),
	)

	var listCmd tea.Cmd
	if a.query == "" {
		listCmd = a.items.DeleteItem(action.Item.ID)
	} else {
		listCmd = a.applyFilter(a.query)
	}
	return tea.Batch(listCmd, toastCmd)
}

// undoLast reverses the most recent still-valid action. An empty or
// expired undo window is a silent no-op.
func (a *appModel) undoLast() tea.Cmd {
	if !a.allow("undo") {
		return nil
	}
	action, ok := a.undo.UndoLast()
	if !ok {
		a.toast.Dismiss()
		return nil
	}
	return func() tea.Msg {
		item, err := a.service.Restore(a.ctx, action.Item.ID)
		if err != nil {
			return util.InfoMsg{
				Type: util.InfoTypeError,
				Msg:  fmt.Sprintf("failed to undo: %v", err),
			}
		}
		return undoneMsg{item: item, index: action.Index}
	}
}

// finishUndo puts the restored item back at the position it was removed
// from, leaving focus and scroll where they are.
func (a *appModel) finishUndo(msg undoneMsg) tea.Cmd {
	a.toast.Dismiss()
	if a.triaged > 0 {
		a.triaged--
	}
	index := min(msg.index, a.queue.Len())
	a.queue.Insert(index, msg.item)

	if a.query == "" {
		return a.items.InsertItem(index, queue.NewItem(msg.item))
	}
	return a.applyFilter(a.query)
}

func (a *appModel) toggleExpand(id string) tea.Cmd {
	for _, row := range a.items.Items() {
		if row.ID() == id {
			row.ToggleExpand()
			return a.items.UpdateItem(id, row)
		}
	}
	return nil
}

// applyFilter rebuilds the visible rows from the authoritative collection
// through the fuzzy matcher.
func (a *appModel) applyFilter(query string) tea.Cmd {
	a.query = query

	all := make([]review.Item, 0, a.queue.Len())
	for item := range a.queue.Seq() {
		all = append(all, item)
	}

	visible := all
	if query != "" {
		titles := make([]string, len(all))
		for i, item := range all {
			titles[i] = item.Title
		}
		matches := fuzzy.Find(query, titles)
		visible = make([]review.Item, 0, len(matches))
		for _, m := range matches {
			visible = append(visible, all[m.Index])
		}
	}

	rows := make([]*queue.Item, len(visible))
	for i, item := range visible {
		rows[i] = queue.NewItem(item)
	}
	return a.items.SetItems(rows)
}

// handleEvent reconciles the queue with a service-side change. Changes
// made by this controller are already reflected locally and reduce to
// no-ops here.
func (a *appModel) handleEvent(event pubsub.Event[review.Item]) tea.Cmd {
	item := event.Payload
	switch event.Type {
	case pubsub.CreatedEvent:
		if item.Status != review.StatusPending {
			return nil
		}
		if _, _, ok := a.findQueued(item.ID); ok {
			return nil
		}
		a.queue.Append(item)
		if a.query == "" {
			return a.items.AppendItem(queue.NewItem(item))
		}
		return a.applyFilter(a.query)
	case pubsub.UpdatedEvent:
		_, _, queued := a.findQueued(item.ID)
		if item.Status == review.StatusPending && !queued {
			// Restored elsewhere (another session, the undo path already
			// handled its own insert).
			a.queue.Append(item)
			return a.applyFilter(a.query)
		}
		if item.Status != review.StatusPending && queued {
			a.removeQueued(item.ID)
			if a.query == "" {
				return a.items.DeleteItem(item.ID)
			}
			return a.applyFilter(a.query)
		}
		return nil
	case pubsub.DeletedEvent:
		if a.removeQueued(item.ID) {
			if a.query == "" {
				return a.items.DeleteItem(item.ID)
			}
			return a.applyFilter(a.query)
		}
	}
	return nil
}

func (a *appModel) findQueued(id string) (int, review.Item, bool) {
	for i, item := range a.queue.Seq2() {
		if item.ID == id {
			return i, item, true
		}
	}
	return -1, review.Item{}, false
}

func (a *appModel) removeQueued(id string) bool {
	if i, _, ok := a.findQueued(id); ok {
		return a.queue.Delete(i)
	}
	return false
}

func actionVerb(status review.Status) string {
	switch status {
	case review.StatusApproved:
		return "Approved"
	case review.StatusRejected:
		return "Rejected"
	case review.StatusDeferred:
		return "Deferred"
	case review.StatusDismissed:
		return "Dismissed"
	default:
		return strings.ToTitle(string(status))
	}
}
