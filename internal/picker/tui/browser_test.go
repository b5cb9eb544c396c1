package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JPM1118/assetpick/internal/media"
	"github.com/JPM1118/assetpick/internal/notify"
	"github.com/JPM1118/assetpick/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
)

func img(name string, age time.Duration) *media.Image {
	return media.NewImage("/pictures/"+name, 2048, time.Now().Add(-age))
}

// testBrowser creates a Browser with mock data already loaded.
func testBrowser(src media.Source, width, height int, opts ...Option) Browser {
	b := NewBrowser(src, opts...)
	b.width = width
	b.height = height

	// Simulate the initial load completing
	updated, _ := b.Update(b.loadImages()())
	return updated.(Browser)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(b Browser, keys ...string) (Browser, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var m tea.Model
		m, cmd = b.Update(keyMsg(k))
		b = m.(Browser)
	}
	return b, cmd
}

func threeImages() *testutil.MockSource {
	return &testutil.MockSource{
		Images: []*media.Image{
			img("beach.png", time.Minute),
			img("forest.jpg", time.Hour),
			img("city.gif", 2*time.Hour),
		},
	}
}

func TestView_ShowsAllImages(t *testing.T) {
	b := testBrowser(threeImages(), 100, 30)
	view := b.View()

	for _, name := range []string{"beach.png", "forest.jpg", "city.gif"} {
		if !strings.Contains(view, name) {
			t.Errorf("View() missing image %q", name)
		}
	}
	if !strings.Contains(view, "3 images") {
		t.Error("View() should show image count")
	}
	if !strings.Contains(view, "2.0 kB") {
		t.Error("View() should show human-readable size")
	}
}

func TestUpdate_JKNavigation(t *testing.T) {
	b := testBrowser(threeImages(), 100, 30)

	steps := []struct {
		key  string
		want int
	}{
		{"j", 1}, {"j", 2}, {"j", 2}, {"k", 1}, {"k", 0}, {"k", 0}, {"down", 1},
	}
	for i, s := range steps {
		b, _ = press(b, s.key)
		if b.cursor != s.want {
			t.Errorf("step %d (%s): cursor = %d, want %d", i, s.key, b.cursor, s.want)
		}
	}
}

func TestUpdate_GAndgNavigation(t *testing.T) {
	b := testBrowser(threeImages(), 100, 30)

	b, _ = press(b, "G")
	if b.cursor != 2 {
		t.Errorf("after G: cursor = %d, want 2", b.cursor)
	}
	b, _ = press(b, "g")
	if b.cursor != 0 {
		t.Errorf("after g: cursor = %d, want 0", b.cursor)
	}
}

func TestUpdate_EnterPicksCurrent(t *testing.T) {
	src := threeImages()
	b := testBrowser(src, 100, 30)

	b, cmd := press(b, "j", "enter")
	if cmd == nil {
		t.Fatal("Enter should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Enter should quit the program")
	}
	if b.Selected() != src.Images[1] {
		t.Errorf("Selected() = %v, want forest.jpg", b.Selected())
	}
	if !b.Finished() {
		t.Error("browser should be finished after pick")
	}
}

func TestUpdate_EnterOnEmptyList(t *testing.T) {
	b := testBrowser(&testutil.MockSource{}, 100, 30)

	b, cmd := press(b, "enter")
	if cmd != nil {
		t.Error("Enter on empty list should return nil cmd")
	}
	if b.Finished() {
		t.Error("Enter on empty list should not finish")
	}
}

func TestUpdate_CancelKeys(t *testing.T) {
	for _, k := range []string{"q", "esc", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			b := testBrowser(threeImages(), 100, 30)

			b, cmd := press(b, k)
			if cmd == nil {
				t.Fatal("cancel should return a command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("%s command returned non-quit message", k)
			}
			if b.Selected() != nil {
				t.Error("cancel should leave no selection")
			}
			if !b.Finished() {
				t.Error("browser should be finished after cancel")
			}
		})
	}
}

func TestUpdate_Filter(t *testing.T) {
	src := threeImages()
	b := testBrowser(src, 100, 30)

	b, _ = press(b, "/", "f", "o", "r")
	if len(b.visible) != 1 || b.visible[0].Name != "forest.jpg" {
		t.Fatalf("visible = %d items, want only forest.jpg", len(b.visible))
	}
	if !strings.Contains(b.View(), "1 of 3 images") {
		t.Error("View() should show filtered count")
	}

	// q while filtering is text, not cancel
	b, _ = press(b, "q")
	if b.Finished() {
		t.Error("q while filtering should not cancel")
	}

	// esc clears the filter
	b, _ = press(b, "esc")
	if b.filter.Focused() || len(b.visible) != 3 {
		t.Errorf("esc should clear filter, visible = %d", len(b.visible))
	}

	b, _ = press(b, "/", "c", "i", "enter")
	if b.Selected() != src.Images[2] {
		t.Errorf("enter while filtering should pick city.gif, got %v", b.Selected())
	}
}

func TestUpdate_FilterNoMatches(t *testing.T) {
	b := testBrowser(threeImages(), 100, 30)

	b, _ = press(b, "/", "z", "z")
	if !strings.Contains(b.View(), "No images match") {
		t.Error("View() should show no-match message")
	}
}

func TestUpdate_ReloadKeepsCursorOnSameImage(t *testing.T) {
	src := threeImages()
	b := testBrowser(src, 100, 30)
	b, _ = press(b, "j") // forest.jpg

	newer := img("new.png", 0)
	src.SetImages(append([]*media.Image{newer}, src.Images...))

	b, cmd := press(b, "r")
	if cmd == nil || !b.loading {
		t.Fatal("r should start a reload")
	}
	m, _ := b.Update(cmd())
	b = m.(Browser)

	if b.current().Name != "forest.jpg" {
		t.Errorf("cursor on %q after reload, want forest.jpg", b.current().Name)
	}
}

func TestUpdate_LibraryChangeReloadsAndNotifies(t *testing.T) {
	src := threeImages()
	changes := make(chan media.Change, 1)
	bar := notify.NewBar(5)
	bell := notify.NewBell(time.Second, []media.Op{media.OpCreate})
	var rang bytes.Buffer
	bell.SetOutput(&rang)

	b := testBrowser(src, 100, 30, WithChanges(changes), WithNotifyBar(bar), WithBell(bell))

	src.SetImages(append(src.Images, img("added.png", 3*time.Hour)))
	m, cmd := b.Update(libraryChangedMsg{change: media.Change{Path: "/pictures/added.png", Op: media.OpCreate, At: time.Now()}})
	b = m.(Browser)
	if cmd == nil {
		t.Fatal("library change should trigger a reload")
	}
	if bar.Len() != 1 {
		t.Errorf("bar.Len() = %d, want 1", bar.Len())
	}
	if rang.String() != "\a" {
		t.Error("bell should ring for an added image")
	}
	if !strings.Contains(b.View(), "added.png added") {
		t.Error("View() should show the change notification")
	}
}

func TestWaitForChange(t *testing.T) {
	changes := make(chan media.Change, 1)
	b := NewBrowser(threeImages(), WithChanges(changes))

	changes <- media.Change{Path: "/pictures/x.png", Op: media.OpWrite}
	msg, ok := b.waitForChange()().(libraryChangedMsg)
	if !ok || msg.change.Op != media.OpWrite {
		t.Errorf("waitForChange() = %v, want libraryChangedMsg", msg)
	}

	close(changes)
	if got := b.waitForChange()(); got != nil {
		t.Errorf("closed channel should yield nil msg, got %T", got)
	}

	if NewBrowser(threeImages()).waitForChange() != nil {
		t.Error("no change channel should yield nil cmd")
	}
}

func TestView_TerminalTooSmall(t *testing.T) {
	b := testBrowser(threeImages(), 40, 8)
	if !strings.Contains(b.View(), "Terminal too small") {
		t.Error("View() should show too-small message")
	}
}

func TestView_EmptyLibrary(t *testing.T) {
	b := testBrowser(&testutil.MockSource{}, 100, 30)
	if !strings.Contains(b.View(), "No images in this folder") {
		t.Error("View() should show empty message")
	}
}

func TestView_LoadingState(t *testing.T) {
	b := NewBrowser(threeImages())
	b.width = 100
	b.height = 30
	if !strings.Contains(b.View(), "Loading") {
		t.Error("View() should show loading state")
	}
}

func TestView_ScanError(t *testing.T) {
	b := testBrowser(&testutil.MockSource{ScanErr: errors.New("permission denied")}, 100, 30)
	if !strings.Contains(b.View(), "permission denied") {
		t.Error("View() should show scan error")
	}
}

func TestView_ReloadErrorKeepsList(t *testing.T) {
	src := threeImages()
	b := testBrowser(src, 100, 30)

	m, _ := b.Update(imagesLoadedMsg{err: errors.New("disk gone")})
	b = m.(Browser)

	view := b.View()
	if !strings.Contains(view, "beach.png") {
		t.Error("stale list should stay visible after reload failure")
	}
	if !strings.Contains(view, "Reload failed: disk gone") {
		t.Error("View() should show reload error")
	}
}

func TestView_ResponsiveModifiedColumn(t *testing.T) {
	src := threeImages()

	wide := testBrowser(src, 100, 30).View()
	if !strings.Contains(wide, "MODIFIED") || !strings.Contains(wide, "ago") {
		t.Error("wide View() should show MODIFIED column")
	}

	narrow := testBrowser(src, 70, 30).View()
	if strings.Contains(narrow, "MODIFIED") {
		t.Error("narrow View() should hide MODIFIED column")
	}
}

func TestView_CursorIndicator(t *testing.T) {
	b := testBrowser(threeImages(), 100, 30)
	if !strings.Contains(b.View(), "▸") {
		t.Error("View() should show cursor indicator")
	}
}

func TestView_FinishedIsBlank(t *testing.T) {
	b := testBrowser(threeImages(), 100, 30)
	b, _ = press(b, "enter")
	if b.View() != "" {
		t.Error("finished browser should render nothing")
	}
}

func TestUpdate_WindowResize(t *testing.T) {
	b := testBrowser(threeImages(), 100, 30)

	m, _ := b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	b = m.(Browser)
	if b.width != 120 || b.height != 40 {
		t.Errorf("after resize: %dx%d, want 120x40", b.width, b.height)
	}
}

func TestTruncateAndPad(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Errorf("truncate = %q, want abc…", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Errorf("truncate short = %q", got)
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abc" {
		t.Errorf("padRight overflow = %q", got)
	}
}
