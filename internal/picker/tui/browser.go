package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JPM1118/assetpick/internal/media"
	"github.com/JPM1118/assetpick/internal/notify"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	colFormat   = 8
	colSize     = 10
	colModified = 16
	minWidth    = 60
	minHeight   = 10
	headerLines = 4 // header + subheader + column header + separator
	footerLines = 2 // notification bar + status bar
)

// Messages

type imagesLoadedMsg struct {
	images []*media.Image
	err    error
}

type libraryChangedMsg struct {
	change media.Change
}

// Browser is the Bubble Tea model for the image picker.
type Browser struct {
	src      media.Source
	images   []*media.Image
	visible  []*media.Image
	cursor   int
	width    int
	height   int
	loading  bool
	lastErr  string
	keys     keyMap
	filter   textinput.Model
	changes  <-chan media.Change
	bar      *notify.Bar
	bell     *notify.Bell
	now      func() time.Time
	picked   *media.Image
	finished bool
}

// Option configures a Browser.
type Option func(*Browser)

// WithChanges makes the browser reload when the library reports a change.
func WithChanges(ch <-chan media.Change) Option {
	return func(b *Browser) {
		b.changes = ch
	}
}

// WithNotifyBar shows recent library changes above the status bar.
func WithNotifyBar(bar *notify.Bar) Option {
	return func(b *Browser) {
		b.bar = bar
	}
}

// WithBell rings the terminal bell on library changes.
func WithBell(bell *notify.Bell) Option {
	return func(b *Browser) {
		b.bell = bell
	}
}

// NewBrowser creates a new browser model over src.
func NewBrowser(src media.Source, opts ...Option) Browser {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter by name"
	ti.CharLimit = 64

	b := Browser{
		src:     src,
		loading: true,
		keys:    defaultKeyMap(),
		filter:  ti,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Selected returns the picked image, or nil if the user cancelled.
func (b Browser) Selected() *media.Image {
	return b.picked
}

// Finished reports whether the user picked or cancelled.
func (b Browser) Finished() bool {
	return b.finished
}

// Init loads the initial image list.
func (b Browser) Init() tea.Cmd {
	return tea.Batch(b.loadImages(), b.waitForChange())
}

func (b Browser) loadImages() tea.Cmd {
	return func() tea.Msg {
		images, err := b.src.Scan(context.Background())
		return imagesLoadedMsg{images: images, err: err}
	}
}

func (b Browser) waitForChange() tea.Cmd {
	if b.changes == nil {
		return nil
	}
	ch := b.changes
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return libraryChangedMsg{change: c}
	}
}

// Update handles messages.
func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if b.filter.Focused() {
			return b.handleFilterKey(msg)
		}
		return b.handleKey(msg)

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil

	case imagesLoadedMsg:
		b.loading = false
		if msg.err != nil {
			if b.images == nil {
				b.lastErr = msg.err.Error()
			} else {
				// Reload failed, keep stale list
				b.lastErr = fmt.Sprintf("Reload failed: %s", msg.err.Error())
			}
			return b, nil
		}
		b.lastErr = ""
		b.setImages(msg.images)
		return b, nil

	case libraryChangedMsg:
		if b.bar != nil {
			b.bar.Push(notify.FromChange(msg.change))
		}
		if b.bell != nil {
			b.bell.Ring(msg.change.Op, b.now())
		}
		return b, tea.Batch(b.loadImages(), b.waitForChange())
	}

	return b, nil
}

func (b Browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Quit), key.Matches(msg, b.keys.Cancel):
		return b.cancel()

	case key.Matches(msg, b.keys.Pick):
		return b.pick()

	case key.Matches(msg, b.keys.Down):
		b.moveCursor(1)
		return b, nil

	case key.Matches(msg, b.keys.Up):
		b.moveCursor(-1)
		return b, nil

	case key.Matches(msg, b.keys.Bottom):
		if len(b.visible) > 0 {
			b.cursor = len(b.visible) - 1
		}
		return b, nil

	case key.Matches(msg, b.keys.Top):
		b.cursor = 0
		return b, nil

	case key.Matches(msg, b.keys.Filter):
		cmd := b.filter.Focus()
		return b, cmd

	case key.Matches(msg, b.keys.Reload):
		b.loading = true
		return b, b.loadImages()
	}

	return b, nil
}

func (b Browser) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return b.cancel()

	case "enter":
		return b.pick()

	case "esc":
		b.filter.Blur()
		b.filter.SetValue("")
		b.applyFilter()
		return b, nil

	case "down":
		b.moveCursor(1)
		return b, nil

	case "up":
		b.moveCursor(-1)
		return b, nil
	}

	var cmd tea.Cmd
	b.filter, cmd = b.filter.Update(msg)
	b.applyFilter()
	return b, cmd
}

func (b Browser) pick() (tea.Model, tea.Cmd) {
	img := b.current()
	if img == nil {
		return b, nil
	}
	b.picked = img
	b.finished = true
	return b, tea.Quit
}

func (b Browser) cancel() (tea.Model, tea.Cmd) {
	b.picked = nil
	b.finished = true
	return b, tea.Quit
}

func (b *Browser) moveCursor(delta int) {
	b.cursor += delta
	if b.cursor >= len(b.visible) {
		b.cursor = len(b.visible) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}

func (b Browser) current() *media.Image {
	if b.cursor < 0 || b.cursor >= len(b.visible) {
		return nil
	}
	return b.visible[b.cursor]
}

// setImages replaces the list, keeping the cursor on the same asset when it
// still exists.
func (b *Browser) setImages(images []*media.Image) {
	var keepID string
	if cur := b.current(); cur != nil {
		keepID = cur.ID
	}
	b.images = images
	b.applyFilter()

	if keepID == "" {
		return
	}
	for i, img := range b.visible {
		if img.ID == keepID {
			b.cursor = i
			return
		}
	}
}

func (b *Browser) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(b.filter.Value()))
	if q == "" {
		b.visible = b.images
	} else {
		b.visible = make([]*media.Image, 0, len(b.images))
		for _, img := range b.images {
			if strings.Contains(strings.ToLower(img.Name), q) {
				b.visible = append(b.visible, img)
			}
		}
	}
	if b.cursor >= len(b.visible) {
		b.cursor = max(0, len(b.visible)-1)
	}
}

// View renders the browser.
func (b Browser) View() string {
	if b.finished {
		return ""
	}
	if b.width < minWidth || b.height < minHeight {
		return fmt.Sprintf("\n  Terminal too small (need %dx%d, got %dx%d)\n", minWidth, minHeight, b.width, b.height)
	}

	var sb strings.Builder

	sb.WriteString(b.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(b.renderSubheader())
	sb.WriteString("\n")
	sb.WriteString(b.renderColumnHeaders())
	sb.WriteString("\n")
	sb.WriteString(b.renderSeparator())
	sb.WriteString("\n")

	listHeight := b.height - headerLines - footerLines
	sb.WriteString(b.renderImageList(listHeight))

	sb.WriteString(b.renderNotificationBar())
	sb.WriteString("\n")
	sb.WriteString(b.renderStatusBar())

	return sb.String()
}

func (b Browser) showModified() bool {
	return b.width >= 80
}

func (b Browser) nameWidth() int {
	w := b.width - 2 - colFormat - colSize
	if b.showModified() {
		w -= colModified
	}
	return max(10, w)
}

func (b Browser) renderHeader() string {
	title := headerStyle.Render("assetpick") + " " + subheaderStyle.Render(b.src.Dir())

	right := ""
	if b.images != nil {
		count := fmt.Sprintf("%d images", len(b.images))
		if len(b.visible) != len(b.images) {
			count = fmt.Sprintf("%d of %d images", len(b.visible), len(b.images))
		}
		right = badgeStyle.Render(count)
	}

	gap := b.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + right
}

func (b Browser) renderSubheader() string {
	if b.filter.Focused() || b.filter.Value() != "" {
		return b.filter.View()
	}
	status := "Choose an image"
	if b.lastErr != "" {
		status = "Error"
	}
	if b.loading {
		status = "Loading..."
	}
	return subheaderStyle.Render(status)
}

func (b Browser) renderColumnHeaders() string {
	header := padRight("  NAME", b.nameWidth()+2) + padRight("FORMAT", colFormat) + padRight("SIZE", colSize)
	if b.showModified() {
		header += "MODIFIED"
	}
	return columnHeaderStyle.Render(header)
}

func (b Browser) renderSeparator() string {
	sep := padRight(strings.Repeat("─", b.nameWidth()+1), b.nameWidth()+2) +
		padRight(strings.Repeat("─", colFormat-1), colFormat) +
		padRight(strings.Repeat("─", colSize-1), colSize)
	if b.showModified() {
		sep += strings.Repeat("─", colModified-1)
	}
	return subheaderStyle.Render(sep)
}

func (b Browser) renderImageList(height int) string {
	if b.loading && len(b.images) == 0 {
		return padLines("  Loading images...\n", height)
	}

	if len(b.visible) == 0 {
		msg := "  No images in this folder.\n"
		if len(b.images) > 0 {
			msg = "  No images match the filter.\n"
		} else if b.lastErr != "" {
			msg = "  " + errorStyle.Render(truncate(b.lastErr, b.width-4)) + "\n"
		}
		return padLines(msg, height)
	}

	// Scroll to keep the cursor visible
	start := 0
	if b.cursor >= height {
		start = b.cursor - height + 1
	}
	end := start + height
	if end > len(b.visible) {
		end = len(b.visible)
	}

	nameWidth := b.nameWidth()

	var sb strings.Builder
	for i := start; i < end; i++ {
		img := b.visible[i]

		prefix := "  "
		name := padRight(truncate(img.Name, nameWidth-1), nameWidth)
		if i == b.cursor {
			prefix = cursorStyle.Render("▸ ")
			name = selectedNameStyle.Render(name)
		}

		format := formatStyle(img.Format).Render(padRight(img.Format, colFormat))
		size := padRight(img.HumanSize(), colSize)

		line := prefix + name + format + size
		if b.showModified() {
			line += lipgloss.NewStyle().Foreground(colorMuted).Render(img.Age())
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}

	for i := end - start; i < height; i++ {
		sb.WriteString("\n")
	}

	return sb.String()
}

func (b Browser) renderNotificationBar() string {
	if b.lastErr != "" && len(b.images) > 0 {
		return notificationBarStyle.Render("  " + truncate(b.lastErr, b.width-4))
	}
	if b.bar != nil {
		return notificationBarStyle.Render("  " + b.bar.Render(b.width-4, b.now()))
	}
	return notificationBarStyle.Render("")
}

func (b Browser) renderStatusBar() string {
	return statusBarStyle.Render(b.keys.statusHelp(b.filter.Focused()))
}

// Helpers

func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxLen, "…")
}

func padLines(content string, height int) string {
	lines := strings.Count(content, "\n")
	padding := height - lines
	if padding > 0 {
		content += strings.Repeat("\n", padding)
	}
	return content
}
