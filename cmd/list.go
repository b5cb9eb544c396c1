package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/JPM1118/assetpick/internal/media"
	"github.com/spf13/cobra"
)

var listRecursive bool

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "Print the images a picker would offer (non-interactive)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cfg.Library.Root
		if len(args) == 1 {
			root = args[0]
		}
		recursive := cfg.Library.Recursive
		if cmd.Flags().Changed("recursive") {
			recursive = listRecursive
		}

		lib := &media.Library{
			Root:       expandHome(root),
			Recursive:  recursive,
			Extensions: cfg.Library.Extensions,
		}
		images, err := lib.Scan(cmd.Context())
		if err != nil {
			return err
		}

		if len(images) == 0 {
			fmt.Printf("No images in %s.\n", lib.Dir())
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tFORMAT\tSIZE\tMODIFIED")
		fmt.Fprintln(w, "────\t──────\t────\t────────")
		for _, img := range images {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", img.Name, img.Format, img.HumanSize(), img.Age())
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listRecursive, "recursive", "r", false, "include images in subfolders")
	rootCmd.AddCommand(listCmd)
}
