// Package markdown locates fenced code blocks in rendered chat output so
// they can be copied to the system clipboard.
package markdown

import (
	"regexp"
	"strings"

	"github.com/atotto/clipboard"
)

// Matches a fenced block; group 1 is the body without the fences.
// The info string after the opening fence is ignored.
var fencePattern = regexp.MustCompile("(?s)```.*?\n(.*?)```")

// BlockAt returns the code block whose body spans the byte position pos
func BlockAt(content string, pos int) (string, bool) {
	for _, loc := range fencePattern.FindAllStringSubmatchIndex(content, -1) {
		start, end := loc[2], loc[3]
		if start <= pos && pos <= end {
			return strings.TrimSpace(content[start:end]), true
		}
	}
	return "", false
}

// LastBlock returns the last code block in content
func LastBlock(content string) (string, bool) {
	matches := fencePattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return "", false
	}
	return strings.TrimSpace(matches[len(matches)-1][1]), true
}

// CopyToClipboard places text on the system clipboard
func CopyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}
