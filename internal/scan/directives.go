package scan

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/gauge-sh/boundary/internal/types"
)

// directivePattern matches a "boundary-ignore" comment, optionally
// scoped to specific imported symbols in brackets and optionally
// carrying a free-text reason after a colon:
//
//	# boundary-ignore
//	# boundary-ignore: vendored shim, remove after the 2.0 migration
//	# boundary-ignore[Foo,Bar]: only these names are grandfathered in
var directivePattern = regexp.MustCompile(`#\s*boundary-ignore(\[([^\]]*)\])?\s*:?\s*(.*)$`)

// collectDirectiveComments does a line-oriented pre-pass over the raw
// source to find every boundary-ignore comment, independent of the
// parse tree. Keying by line number lets the walker attach a directive
// to a statement without threading comment lookahead through node
// traversal.
func collectDirectiveComments(content []byte) map[int]*types.IgnoreDirective {
	out := map[int]*types.IgnoreDirective{}
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		idx := strings.IndexByte(text, '#')
		if idx < 0 {
			continue
		}
		match := directivePattern.FindStringSubmatch(text[idx:])
		if match == nil {
			continue
		}
		var symbols []string
		if match[2] != "" {
			for _, s := range strings.Split(match[2], ",") {
				if s = strings.TrimSpace(s); s != "" {
					symbols = append(symbols, s)
				}
			}
		}
		reason := strings.TrimSpace(match[3])
		out[line] = &types.IgnoreDirective{
			Reason:      reason,
			Symbols:     symbols,
			CommentLine: line,
			HasReason:   reason != "",
		}
	}
	return out
}
