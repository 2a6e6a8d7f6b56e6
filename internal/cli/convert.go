package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gambitproject/draw-tree/pkg/pipeline"
)

// convertCommand creates the convert command for translating Gambit
// games into the description language.
func (c *CLI) convertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert [file.efg]",
		Short: "Translate a Gambit .efg game into a .ef file",
		Long: `Convert reads a Gambit extensive form game and writes the
equivalent .ef description next to the input (or to --output). The
generated file can be edited by hand before drawing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if !pipeline.IsEFG(input) {
				return fmt.Errorf("%s is not an .efg file", input)
			}

			runner := c.newRunner(true)
			defer runner.Close()

			text, err := runner.ConvertEFG(input)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = strings.TrimSuffix(input, filepath.Ext(input)) + ".ef"
			}
			if err := os.WriteFile(path, []byte(text), 0644); err != nil {
				return err
			}

			printSuccess("Converted %s", filepath.Base(input))
			printFile(path)
			printNextStep("Draw it", fmt.Sprintf("drawtree draw %s", path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output .ef file path")
	return cmd
}
