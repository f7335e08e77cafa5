package commands

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

// ErrBadNumber is returned by sort --numeric for a line that is not an integer.
var ErrBadNumber = errors.New("not an integer")

// SortCommand sorts lines through a red-black tree.
type SortCommand struct {
	numeric bool
	unique  bool
	reverse bool
}

// NewSortCommand creates the sort subcommand.
func NewSortCommand() *cobra.Command {
	sc := &SortCommand{}

	cmd := &cobra.Command{
		Use:   "sort [file]",
		Short: "Sort lines through a red-black tree",
		Long: `Read newline-separated values from a file (stdin when omitted), insert
them into a red-black tree and print them in ascending order. Blank lines are
skipped. The tree invariants are checked before anything is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: sc.run,
	}

	cmd.Flags().BoolVarP(&sc.numeric, "numeric", "n", false, "Compare values as 64-bit integers")
	cmd.Flags().BoolVarP(&sc.unique, "unique", "u", false, "Print equal values once")
	cmd.Flags().BoolVarP(&sc.reverse, "reverse", "r", false, "Print in descending order")

	return cmd
}

func (sc *SortCommand) run(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	input := cmd.InOrStdin()

	if len(args) == 1 {
		file, openErr := os.Open(args[0])
		if openErr != nil {
			return fmt.Errorf("open input: %w", openErr)
		}
		defer file.Close()

		input = file
	}

	lines, err := readLines(input)
	if err != nil {
		return err
	}

	st.logger.DebugContext(cmd.Context(), "input read", "lines", len(lines), "numeric", sc.numeric)

	if !sc.numeric {
		return sortAndPrint(cmd.OutOrStdout(), lines, sc.unique, sc.reverse)
	}

	numbers := make([]int64, 0, len(lines))

	for idx, line := range lines {
		number, parseErr := strconv.ParseInt(line, 10, 64)
		if parseErr != nil {
			return fmt.Errorf("value %d %q: %w", idx+1, line, ErrBadNumber)
		}

		numbers = append(numbers, number)
	}

	return sortAndPrint(cmd.OutOrStdout(), numbers, sc.unique, sc.reverse)
}

func readLines(input io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		lines = append(lines, line)
	}

	scanErr := scanner.Err()
	if scanErr != nil {
		return nil, fmt.Errorf("read input: %w", scanErr)
	}

	return lines, nil
}

func sortAndPrint[T cmp.Ordered](out io.Writer, values []T, unique, reverse bool) error {
	tree := rbtree.New[T]()
	for _, value := range values {
		tree.Insert(value)
	}

	validateErr := tree.Validate()
	if validateErr != nil {
		return fmt.Errorf("sort: %w", validateErr)
	}

	sorted := tree.Values()
	if reverse {
		slices.Reverse(sorted)
	}

	if unique {
		sorted = slices.Compact(sorted)
	}

	writer := bufio.NewWriter(out)

	for _, value := range sorted {
		_, writeErr := fmt.Fprintln(writer, value)
		if writeErr != nil {
			return fmt.Errorf("write output: %w", writeErr)
		}
	}

	flushErr := writer.Flush()
	if flushErr != nil {
		return fmt.Errorf("write output: %w", flushErr)
	}

	return nil
}
