package ini

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		prev CommentState
		want CommentState
	}{
		{"empty", "", NotComment, Blank},
		{"whitespace", " \t ", NotComment, Blank},
		{"semicolon", "; note", NotComment, Semicolon},
		{"slash slash", "// note", NotComment, SlashSlash},
		{"single line block", "/* note */", NotComment, SlashStar},
		{"bare open close", "/**/", NotComment, SlashStar},
		{"open block", "/* note", NotComment, SlashStarOpen},
		{"open block with star slash only", "/*/", NotComment, SlashStarOpen},
		{"continue block", "still inside", SlashStarOpen, SlashStarContinue},
		{"blank inside block", "", SlashStarContinue, SlashStarContinue},
		{"data-looking line inside block", "[12]", SlashStarContinue, SlashStarContinue},
		{"close block", "end */", SlashStarContinue, SlashStarClose},
		{"close block right after open", "*/", SlashStarOpen, SlashStarClose},
		{"data after close", "[1]", SlashStarClose, NotComment},
		{"data", "Material=3", NotComment, NotComment},
		{"bracket", "[100]", Blank, NotComment},
		{"semicolon after single line block", ";x", SlashStar, Semicolon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line, tt.prev))
		})
	}
}

func TestCommentState_IsComment(t *testing.T) {
	assert.False(t, NotComment.IsComment())
	for _, s := range []CommentState{Blank, Semicolon, SlashSlash, SlashStar, SlashStarOpen, SlashStarContinue, SlashStarClose} {
		assert.True(t, s.IsComment(), s.String())
	}
}

func TestClassify_MultiLineScan(t *testing.T) {
	lines := []string{"; head", "/* block", "inner", "done */", "", "[1]"}
	want := []CommentState{Semicolon, SlashStarOpen, SlashStarContinue, SlashStarClose, Blank, NotComment}

	state := NotComment
	for i, l := range lines {
		state = Classify(l, state)
		assert.Equal(t, want[i], state, "line %d %q", i, l)
	}
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb\r\n"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\r\n\nb\n"))
}

func TestTrimBlank(t *testing.T) {
	assert.Equal(t, []string{"; a", "", "; b"}, TrimBlank([]string{"", " ", "; a", "", "; b", ""}))
	assert.Empty(t, TrimBlank([]string{"", "  "}))
}

func TestJoinUntilLastNonBlank(t *testing.T) {
	assert.Equal(t, "; a\r\n\r\n; b", JoinUntilLastNonBlank([]string{"; a", "", "; b", "", ""}))
	assert.Equal(t, "", JoinUntilLastNonBlank([]string{"", ""}))
}

func TestSplitAtLastBlank(t *testing.T) {
	t.Run("comment then separator", func(t *testing.T) {
		head, tail := SplitAtLastBlank([]string{"; file header", ""})
		assert.Equal(t, []string{"; file header"}, head)
		assert.Empty(t, tail)
	})

	t.Run("header, separator, record comment", func(t *testing.T) {
		head, tail := SplitAtLastBlank([]string{"; file header", "", "; about record"})
		assert.Equal(t, []string{"; file header"}, head)
		assert.Equal(t, []string{"; about record"}, tail)
	})

	t.Run("no blank attaches everything", func(t *testing.T) {
		head, tail := SplitAtLastBlank([]string{"; one", "; two"})
		assert.Empty(t, head)
		assert.Equal(t, []string{"; one", "; two"}, tail)
	})
}

func TestComment(t *testing.T) {
	assert.Nil(t, Comment(""))
	lines := Comment("; a\r\n; b")
	assert.Equal(t, "; a|; b", strings.Join(lines, "|"))
}
