package cli

import (
	"fmt"
	"io"
)

const usageBody = `
Changes the ACCESS and MODIFY timestamps of the listed files. Without a
reference file, an offset or -t, you are prompted for the new time once
per file. Options only apply to the files that follow them.
    -d       print what is changed (repeat for debug logging)
    -a       alter ONLY the atime timestamps
    -m       alter ONLY the mtime timestamps
    -f FILE  copy the timestamps of FILE
    -F FMT   parse times with strptime template FMT
             (default "%b %d %Y %H:%M:%S")
    -t TSTR  use TSTR as the new time instead of prompting (see -F);
             text after the last field of FMT is rejected
    +-N<unit>
             shift the timestamps by +- N units, where unit is
             [S]econds, [M]inutes, [H]ours, [D]ays, [W]eeks,
             [m]onths (31 days) or [Y]ears (365 days)
`

// Usage writes the command synopsis and option summary to w.
func Usage(w io.Writer, progname string) {
	fmt.Fprintf(w, "Usage: %s [-d] [-am] [-f file] [-F fmt] [-t tstr] [+-N[SMHDWmY]] file [files]*\n", progname)
	io.WriteString(w, usageBody)
}
