package streamfile

import (
	"bufio"
	"fmt"
	"io"
)

// WriteHeader writes the single optional "# n updates" header line
// spec.md §6 and original_source's stream_generator.cpp both use.
func WriteHeader(w io.Writer, n, numUpdates uint64) error {
	_, err := fmt.Fprintf(w, "# %d %d\n", n, numUpdates)
	return err
}

// WriteUpdates writes one "<index> <value>" line per update.
func WriteUpdates(w io.Writer, updates []Update) error {
	bw := bufio.NewWriter(w)
	for _, u := range updates {
		if _, err := fmt.Fprintf(bw, "%d %d\n", u.Index, u.Value); err != nil {
			return err
		}
	}
	return bw.Flush()
}
