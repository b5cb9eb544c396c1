package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/JPM1118/assetpick/internal/config"
	"github.com/JPM1118/assetpick/internal/media"
	"github.com/JPM1118/assetpick/internal/notify"
	"github.com/JPM1118/assetpick/internal/picker/external"
	"github.com/JPM1118/assetpick/internal/picker/fuzzy"
	"github.com/JPM1118/assetpick/internal/picker/tui"
	"github.com/JPM1118/assetpick/internal/selection"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type pickOptions struct {
	surface   string
	recursive bool
	timeout   time.Duration
	copy      bool
	json      bool
}

var pickOpts pickOptions

var pickCmd = &cobra.Command{
	Use:   "pick [dir]",
	Short: "Pick one image and print its path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPick(cmd, args)
	},
}

func init() {
	addPickFlags(pickCmd)
	rootCmd.AddCommand(pickCmd)
}

func addPickFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&pickOpts.surface, "surface", "s", "", "picker to use: tui, fuzzy or external")
	f.BoolVarP(&pickOpts.recursive, "recursive", "r", false, "include images in subfolders")
	f.DurationVar(&pickOpts.timeout, "timeout", 0, "give up after this long (0 = never)")
	f.BoolVar(&pickOpts.copy, "copy", false, "also copy the chosen path to the clipboard")
	f.BoolVar(&pickOpts.json, "json", false, "print the chosen image as JSON")
}

// effectiveConfig merges command-line overrides into the loaded config.
func effectiveConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	c := cfg
	if len(args) == 1 {
		c.Library.Root = args[0]
	}
	c.Library.Root = expandHome(c.Library.Root)

	if cmd.Flags().Changed("recursive") {
		c.Library.Recursive = pickOpts.recursive
	}
	if cmd.Flags().Changed("surface") {
		c.Picker.Surface = pickOpts.surface
	}
	if cmd.Flags().Changed("timeout") {
		c.Picker.Timeout = config.Duration{Duration: pickOpts.timeout}
	}

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func runPick(cmd *cobra.Command, args []string) error {
	c, err := effectiveConfig(cmd, args)
	if err != nil {
		return err
	}

	lib := &media.Library{
		Root:       c.Library.Root,
		Recursive:  c.Library.Recursive,
		Extensions: c.Library.Extensions,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if t := c.Picker.Timeout.Duration; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	// The watcher outlives neither the session nor the host
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	var changes <-chan media.Change
	if c.Library.Watch && c.Picker.Surface != config.SurfaceExternal {
		changes, err = media.Watch(watchCtx, lib, media.WatchConfig{
			RescanInterval: c.Library.RescanInterval.Duration,
			Logger:         logger,
		})
		if err != nil {
			logger.Warn("library watch disabled", "err", err)
		}
	}

	surface, err := newSurface(c, lib, changes)
	if err != nil {
		return err
	}

	result := selection.Pick(ctx, surface, selection.WithLogger(logger))
	stopWatch()
	waitForSurface(surface)

	if !result.OK() {
		return errNoSelection
	}
	return emit(result.Image())
}

func newSurface(c config.Config, lib *media.Library, changes <-chan media.Change) (selection.Surface, error) {
	switch c.Picker.Surface {
	case config.SurfaceFuzzy:
		return fuzzy.NewSurface(lib, changes).WithLogger(logger), nil

	case config.SurfaceExternal:
		var (
			d   external.Dialog
			err error
		)
		if c.Picker.ExternalCommand != "" {
			d, err = external.Parse(c.Picker.ExternalCommand)
		} else {
			d, err = external.Detect(lib.Dir(), lib.Extensions)
		}
		if err != nil {
			return nil, err
		}
		logger.Debug("using file dialog", "command", d.String())
		return external.NewSurface(d, lib.Extensions).WithLogger(logger), nil

	default:
		opts := []tui.Option{tui.WithNotifyBar(notify.NewBar(20))}
		if changes != nil {
			opts = append(opts, tui.WithChanges(changes))
		}
		if c.Picker.BellOnChange {
			opts = append(opts, tui.WithBell(notify.NewBell(5*time.Second, []media.Op{media.OpCreate})))
		}
		// stdout carries the result, draw on stderr
		return tui.NewSurface(lib, opts...).
			WithProgramOptions(tea.WithAltScreen(), tea.WithOutput(os.Stderr)).
			WithLogger(logger), nil
	}
}

// waitForSurface gives the picker a moment to restore the terminal before
// the result is printed.
func waitForSurface(s selection.Surface) {
	d, ok := s.(interface{ Done() <-chan struct{} })
	if !ok {
		return
	}
	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		logger.Debug("picker did not exit in time")
	}
}

func emit(img *media.Image) error {
	if pickOpts.copy {
		if err := clipboard.WriteAll(img.Path); err != nil {
			logger.Warn("copy to clipboard failed", "err", err)
		}
	}

	if pickOpts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(img)
	}
	_, err := fmt.Println(img.Path)
	return err
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
