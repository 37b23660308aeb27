package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gobeaver/magickit/analyzer"
	"github.com/gobeaver/magickit/organizer"
)

// printReport writes the per-file table followed by the summary.
func printReport(w io.Writer, r *analyzer.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tTYPE\tCATEGORY\tSIZE\tENTROPY\tFLAGS")
	for _, rec := range r.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f %s\t%s\n",
			rec.Path,
			rec.Type,
			rec.Category,
			humanize.IBytes(uint64(rec.Size)),
			rec.Entropy,
			rec.EntropyBand,
			flags(rec))
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d files, %s in %s using %d concurrent tasks\n",
		r.TotalFiles,
		humanize.IBytes(uint64(r.TotalSize)),
		r.Duration.Round(time.Millisecond),
		r.Concurrency)

	if len(r.Types) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TYPE\tFILES\tSIZE")
		for _, ts := range r.Types {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", ts.Type, humanize.Comma(int64(ts.Count)), humanize.IBytes(uint64(ts.Size)))
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "\ncorrupt: %d  mismatched: %d  high entropy: %d  failed: %d",
		r.Corrupt, r.Mismatched, r.Encrypted, r.Failed)
	if r.Skipped > 0 {
		fmt.Fprintf(w, "  skipped: %d", r.Skipped)
	}
	fmt.Fprintln(w)

	for _, rec := range r.Mismatches() {
		fmt.Fprintf(w, "  %s looks like %s (expected %s)\n", rec.Path, rec.Type, rec.DetectedExtension)
	}
}

func flags(rec analyzer.FileRecord) string {
	switch {
	case rec.Failed():
		return rec.Description
	case rec.Corrupt:
		return "corrupt"
	}

	var out string
	if rec.ExtensionMismatch {
		out = "mismatch:" + rec.DetectedExtension
	}
	if rec.LikelyEncrypted {
		if out != "" {
			out += ","
		}
		out += "encrypted?"
	}
	return out
}

// printOrganize summarizes an organize run.
func printOrganize(w io.Writer, output string, res *organizer.Result) {
	var size int64
	for _, p := range res.Written {
		size += p.Size
	}

	fmt.Fprintf(w, "\norganized %d files (%s) into %s in %d groups, %s\n",
		len(res.Written),
		humanize.IBytes(uint64(size)),
		output,
		len(res.Plan.Groups()),
		res.Duration.Round(time.Millisecond))

	if renamed := res.Plan.Renamed(); len(renamed) > 0 {
		fmt.Fprintf(w, "  %d renamed to avoid collisions\n", len(renamed))
	}
	if res.Failed > 0 {
		fmt.Fprintf(w, "  %d failed (see log)\n", res.Failed)
	}
	if res.Skipped > 0 {
		fmt.Fprintf(w, "  %d not organized (unknown, corrupt or unreadable)\n", res.Skipped)
	}
	if res.Cancelled > 0 {
		fmt.Fprintf(w, "  %d cancelled\n", res.Cancelled)
	}
}
