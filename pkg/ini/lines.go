package ini

import "strings"

// LineBreak is the line terminator written by every text encoder.
const LineBreak = "\r\n"

// SplitLines splits s on "\r\n" or "\n". A trailing terminator does not
// produce an extra empty line.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// IsBlank reports whether line holds only whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// TrimBlank drops leading and trailing blank lines.
func TrimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && IsBlank(lines[start]) {
		start++
	}
	for end > start && IsBlank(lines[end-1]) {
		end--
	}
	return lines[start:end]
}

// JoinUntilLastNonBlank joins lines with LineBreak up to and including the
// last non-blank line.
func JoinUntilLastNonBlank(lines []string) string {
	end := len(lines)
	for end > 0 && IsBlank(lines[end-1]) {
		end--
	}
	return strings.Join(lines[:end], LineBreak)
}

// SplitAtLastBlank splits a comment block at its last blank line. The part
// before it is returned as head; the lines after it, which sit directly on
// top of whatever follows the block, are returned as tail. Without a blank
// line the whole block is tail.
func SplitAtLastBlank(lines []string) (head, tail []string) {
	for i := len(lines) - 1; i >= 0; i-- {
		if IsBlank(lines[i]) {
			return TrimBlank(lines[:i]), lines[i+1:]
		}
	}
	return nil, lines
}

// Comment is the inverse of the comment text stored on a record: it splits
// text back into lines, or returns nil for empty text.
func Comment(text string) []string {
	if text == "" {
		return nil
	}
	return SplitLines(text)
}
