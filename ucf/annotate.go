package ucf

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	locPattern = regexp.MustCompile(`loc\s*=\s*"(.+?)"`)

	// stale bank annotations from a previous run, in decreasing
	// specificity so the paired form is consumed as a whole
	staleBankIO = regexp.MustCompile(`(?i)\s*bank\s*=\s*(\d+|\?)\s*,\s*IO_(\w+|\?)`)
	staleBank   = regexp.MustCompile(`(?i)\s*bank\s*=\s*(\d+|\?)\s*`)
	staleIO     = regexp.MustCompile(`(?i)\s*IO_(\w+|\?)`)
)

// Annotate copies the UCF text from r to w, adding a "# Bank = N, IO_xxx"
// comment to every line whose LOC constraint names a pin of the table.
// Stale bank annotations on such lines are replaced, other comment text is
// kept, and lines naming unknown pins pass through untouched.
//
func (p *Pinout) Annotate(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if _, werr := bw.WriteString(p.annotateLine(line)); werr != nil {
				return errors.Wrap(werr, "write output")
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "read input")
		}
	}
	return errors.Wrap(bw.Flush(), "write output")
}

// annotateLine rewrites one UCF line, line terminator included. Only the
// code before the first '#' is searched for the LOC constraint; the second
// '#' and anything after it belong to the user and are preserved as is.
func (p *Pinout) annotateLine(line string) string {
	body := strings.TrimRight(line, "\r\n")
	eol := line[len(body):]

	parts := strings.SplitN(body, "#", 3)
	m := locPattern.FindStringSubmatch(strings.ToLower(parts[0]))
	if m == nil {
		return line
	}
	pin, ok := p.Lookup(m[1])
	if !ok {
		return line
	}
	comment := " Bank = " + pin.Bank + ", " + pin.IO

	if len(parts) == 1 {
		return body + " #" + comment + eol
	}
	old := parts[1]
	old = staleBankIO.ReplaceAllString(old, "")
	old = staleBank.ReplaceAllString(old, "")
	old = staleIO.ReplaceAllString(old, "")
	parts[1] = comment + old
	return strings.Join(parts, "#") + eol
}
