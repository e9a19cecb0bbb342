package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Dump writes every record of ds to w, one line per record:
//
//	[0] {sqft_living: "1180", price: "221900"}
func Dump(w io.Writer, ds *Dataset) error {
	bw := bufio.NewWriter(w)
	for i, rec := range ds.All() {
		if _, err := fmt.Fprintf(bw, "[%d] {", i); err != nil {
			return err
		}
		for j, key := range rec.keys {
			if j > 0 {
				bw.WriteString(", ")
			}
			bw.WriteString(key)
			bw.WriteString(": ")
			bw.WriteString(strconv.Quote(rec.fields[key]))
		}
		if _, err := bw.WriteString("}\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
