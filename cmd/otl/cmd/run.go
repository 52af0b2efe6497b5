package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/script"
)

var (
	outputJSON bool
	saveTo     string
)

var runCmd = &cobra.Command{
	Use:   "run <layout_file> <script>",
	Short: "Replay a gesture script against a layout",
	Long: `Load a layout, replay the pointer, key, drag-and-drop and editing steps
of a gesture script, then print the resulting document, selection and
undo history. Script coordinates are layout pixels.

Examples:
  otl run main.layout steps.otls
  otl run --json main.layout steps.otls
  otl run --save out.layout main.layout steps.otls`,
	Args: cobra.ExactArgs(2),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&outputJSON, "json", false, "output the report as JSON")
	runCmd.Flags().StringVar(&saveTo, "save", "", "write the edited document to this file")
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	parser, err := script.NewParser()
	if err != nil {
		return err
	}
	s, err := parser.ParseFile(args[1])
	if err != nil {
		return err
	}

	c, err := openCanvas(cfg, args[0])
	if err != nil {
		return err
	}
	defer c.Close()

	r := &script.Runner{Canvas: c, Logf: logf}
	if err := r.Run(s); err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	logf("otl: replayed %d steps", len(s.Steps))

	if saveTo != "" {
		if err := c.Document().Save(saveTo); err != nil {
			return fmt.Errorf("failed to save: %w", err)
		}
	}

	rep := script.Summarize(c)
	if outputJSON {
		return outputJSONReport(cmd.OutOrStdout(), rep)
	}
	return outputHumanReport(cmd.OutOrStdout(), rep)
}

func outputJSONReport(w io.Writer, rep script.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func outputHumanReport(w io.Writer, rep script.Report) error {
	fmt.Fprintf(w, "Elements: %d\n", rep.Nodes)
	if len(rep.Selection) == 0 {
		fmt.Fprintln(w, "Selection: (none)")
	} else {
		fmt.Fprintln(w, "Selection:")
		for _, s := range rep.Selection {
			fmt.Fprintf(w, "  %s\n", s)
		}
	}
	fmt.Fprintln(w, "Undo history:")
	if len(rep.History) == 0 {
		fmt.Fprintln(w, "  (empty)")
	}
	for i, h := range rep.History {
		fmt.Fprintf(w, "  %d. %s\n", i+1, h)
	}
	if rep.Status != "" {
		fmt.Fprintf(w, "Status: %s\n", rep.Status)
	}
	if rep.Stale {
		fmt.Fprintln(os.Stderr, "warning: the last render failed; the view tree is stale")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, rep.Document)
	return nil
}
