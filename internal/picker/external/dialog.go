package external

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNoDialog is returned when no supported file dialog is installed.
var ErrNoDialog = errors.New("no file dialog found in PATH (install zenity or kdialog, or set picker.external_command)")

// Dialog is a command that shows a native file chooser and prints the chosen
// path on stdout.
type Dialog struct {
	Name string
	Args []string
}

func (d Dialog) String() string {
	return strings.Join(append([]string{d.Name}, d.Args...), " ")
}

// Parse builds a Dialog from a user-supplied command line. Arguments are
// split on whitespace; quoting is not supported.
func Parse(command string) (Dialog, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Dialog{}, fmt.Errorf("empty dialog command")
	}
	return Dialog{Name: fields[0], Args: fields[1:]}, nil
}

// Detect picks the platform dialog for choosing an image under root.
func Detect(root string, exts []string) (Dialog, error) {
	return detect(runtime.GOOS, exec.LookPath, root, exts)
}

func detect(goos string, lookPath func(string) (string, error), root string, exts []string) (Dialog, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return Dialog{}, err
	}

	var candidates []Dialog
	switch goos {
	case "darwin":
		script := fmt.Sprintf(`POSIX path of (choose file of type {"public.image"} with prompt "Choose an image" default location POSIX file %q)`, root)
		candidates = append(candidates, Dialog{Name: "osascript", Args: []string{"-e", script}})
	default:
		patterns := make([]string, 0, len(exts))
		for _, e := range exts {
			patterns = append(patterns, "*"+e, "*"+strings.ToUpper(e))
		}
		candidates = append(candidates,
			Dialog{Name: "zenity", Args: []string{
				"--file-selection",
				"--title=Choose an image",
				"--filename=" + root + string(filepath.Separator),
				"--file-filter=Images | " + strings.Join(patterns, " "),
			}},
			Dialog{Name: "kdialog", Args: []string{
				"--title", "Choose an image",
				"--getopenfilename", root,
				strings.Join(patterns, " "),
			}},
		)
	}

	for _, d := range candidates {
		if _, err := lookPath(d.Name); err == nil {
			return d, nil
		}
	}
	return Dialog{}, ErrNoDialog
}
