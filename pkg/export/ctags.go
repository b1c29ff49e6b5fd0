package export

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/bastiangx/symserve/pkg/symbol"
)

// Ctags writes a sorted tags file using line numbers as addresses.
func Ctags(w io.Writer, symbols []symbol.Symbol) error {
	sorted := slices.Clone(symbols)
	slices.SortStableFunc(sorted, func(a, b symbol.Symbol) int {
		return cmp.Or(
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
		)
	})

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "!_TAG_FILE_FORMAT\t2\t/extended format/")
	fmt.Fprintln(bw, "!_TAG_FILE_SORTED\t1\t/0=unsorted, 1=sorted, 2=foldcase/")
	fmt.Fprintf(bw, "!_TAG_PROGRAM_NAME\t%s\t//\n", Generator)
	for _, s := range sorted {
		if s.Name == "" {
			continue
		}
		fmt.Fprintf(bw, "%s\t%s\t%d;\"\t%s\n", s.Name, s.File, s.Line, s.Kind)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing tags: %w", err)
	}
	return nil
}
