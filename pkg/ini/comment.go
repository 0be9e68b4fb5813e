// Package ini holds the line-level helpers shared by the text container
// formats: comment classification and line splitting.
package ini

import "strings"

// CommentState classifies a single text line. Block comments span lines, so
// the state of the previous line is needed to classify the next one.
type CommentState int

const (
	NotComment        CommentState = -1
	Blank             CommentState = 0
	Semicolon         CommentState = 1 // ; comment
	SlashSlash        CommentState = 2 // // comment
	SlashStar         CommentState = 3 // /* comment */ on one line
	SlashStarOpen     CommentState = 4 // /* without a closing */
	SlashStarContinue CommentState = 5 // inside an open /* block
	SlashStarClose    CommentState = 6 // line ending the block
)

// IsComment reports whether the line carries no data. Blank lines count.
func (s CommentState) IsComment() bool {
	return s >= Blank
}

// InBlock reports whether a following line is still inside a /* block.
func (s CommentState) InBlock() bool {
	return s == SlashStarOpen || s == SlashStarContinue
}

func (s CommentState) String() string {
	switch s {
	case NotComment:
		return "data"
	case Blank:
		return "blank"
	case Semicolon:
		return "semicolon"
	case SlashSlash:
		return "slash-slash"
	case SlashStar:
		return "slash-star"
	case SlashStarOpen:
		return "slash-star-open"
	case SlashStarContinue:
		return "slash-star-continue"
	case SlashStarClose:
		return "slash-star-close"
	default:
		return "unknown"
	}
}

// Classify returns the state of line given the state of the line before it.
// Callers pass the trimmed line; the raw line is what gets kept as comment
// text.
func Classify(line string, prev CommentState) CommentState {
	if prev.InBlock() {
		if strings.HasSuffix(line, "*/") {
			return SlashStarClose
		}
		return SlashStarContinue
	}

	switch {
	case strings.TrimSpace(line) == "":
		return Blank
	case strings.HasPrefix(line, ";"):
		return Semicolon
	case strings.HasPrefix(line, "//"):
		return SlashSlash
	case strings.HasPrefix(line, "/*"):
		if len(line) >= 4 && strings.HasSuffix(line, "*/") {
			return SlashStar
		}
		return SlashStarOpen
	}
	return NotComment
}
