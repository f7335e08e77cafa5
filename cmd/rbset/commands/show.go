package commands

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
	"github.com/Sumatoshi-tech/rbset/pkg/rbtree/rbdebug"
)

// Output formats of the show command.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

var showFormats = []string{FormatText, FormatYAML, FormatJSON}

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown format")

// ShowCommand prints the shape of a tree built from its arguments.
type ShowCommand struct {
	format  string
	remove  []int64
	noColor bool
	stats   bool
}

// NewShowCommand creates the show subcommand.
func NewShowCommand() *cobra.Command {
	sh := &ShowCommand{}

	cmd := &cobra.Command{
		Use:   "show [values...]",
		Short: "Print the red-black shape of a tree",
		Long: `Insert the integer arguments in order, remove the --remove values in order,
and print the resulting tree. The text format draws one node per line with its
color; yaml and json print a nested snapshot.`,
		Example: `  rbset show 1 2 3 4 5 6 7 --remove 4
  rbset show 10 20 30 --format yaml`,
		RunE: sh.run,
	}

	cmd.Flags().StringVarP(&sh.format, "format", "f", FormatText, "Output format: text, yaml, json")
	cmd.Flags().Int64SliceVar(&sh.remove, "remove", nil, "Values to remove after insertion")
	cmd.Flags().BoolVar(&sh.noColor, "no-color", false, "Disable colored node labels")
	cmd.Flags().BoolVar(&sh.stats, "stats", false, "Append a balance statistics table to text output")

	return cmd
}

func (sh *ShowCommand) run(cmd *cobra.Command, args []string) error {
	if !slices.Contains(showFormats, sh.format) {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, sh.format)
	}

	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	tree := rbtree.New[int64]()

	for _, arg := range args {
		value, parseErr := strconv.ParseInt(arg, 10, 64)
		if parseErr != nil {
			return fmt.Errorf("value %q: %w", arg, ErrBadNumber)
		}

		tree.Insert(value)
	}

	for _, value := range sh.remove {
		_, found := tree.Remove(value)
		if !found {
			st.logger.WarnContext(cmd.Context(), "value not in tree", "value", value)
		}
	}

	validateErr := tree.Validate()
	if validateErr != nil {
		return fmt.Errorf("show: %w", validateErr)
	}

	out := cmd.OutOrStdout()

	switch sh.format {
	case FormatText:
		fmt.Fprintln(out, rbdebug.Render(tree, rbdebug.Options{
			MaxNodes: st.cfg.Render.MaxNodes,
			Color:    st.cfg.Render.Color && !sh.noColor,
		}))

		if sh.stats {
			fmt.Fprintln(out, rbdebug.StatsTable(rbdebug.Collect(tree)))
		}

		return nil
	case FormatYAML:
		data, marshalErr := rbdebug.MarshalYAML(tree)
		if marshalErr != nil {
			return fmt.Errorf("show: %w", marshalErr)
		}

		_, writeErr := out.Write(data)

		return writeErr
	case FormatJSON:
		data, marshalErr := rbdebug.MarshalJSON(tree)
		if marshalErr != nil {
			return fmt.Errorf("show: %w", marshalErr)
		}

		_, writeErr := fmt.Fprintln(out, string(data))

		return writeErr
	}

	return nil
}
