package todo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComments(t *testing.T) {
	for _, input := range []string{"", "# this is a comment", "#", "#pick abc"} {
		line := Parse(input)
		assert.Equal(t, KindComment, line.Kind, "input: %q", input)
		assert.Equal(t, input, line.String(), "input: %q", input)
	}
}

func TestParseTrimsBeforeClassifying(t *testing.T) {
	line := Parse("   # indented comment  ")
	assert.Equal(t, Comment("# indented comment"), line)

	line = Parse("\tpick abc123\r")
	assert.Equal(t, WithCommit(KindPick, "abc123", nil), line)
}

func TestParseCanonicalRoundTrip(t *testing.T) {
	inputs := []string{
		"pick abc123",
		"pick abc123 Add the thing",
		"reword abc123 Fix typo",
		"edit deadbeef",
		"squash deadbeef wip",
		"fixup deadbeef",
		"drop deadbeef oops",
		"exec echo hello world",
		"exec make",
		"label onto",
		"label onto extra tokens",
		"reset onto",
		"reset [new root]",
		"merge feature_branch",
		"merge -c abc123 feature_branch",
		"merge -c abc123 feature # Merge branch 'feature'",
		"update-ref refs/heads/main",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			line := Parse(input)
			require.NotEqual(t, KindComment, line.Kind)
			assert.Equal(t, input, line.String())
			assert.Equal(t, line, Parse(line.String()))
		})
	}
}

func TestParseAliases(t *testing.T) {
	cases := []struct {
		alias string
		full  string
		want  string
	}{
		{"p abc123 msg", "pick abc123 msg", "pick abc123 msg"},
		{"e deadbeef", "edit deadbeef", "edit deadbeef"},
		{"s deadbeef", "squash deadbeef", "squash deadbeef"},
		{"f deadbeef", "fixup deadbeef", "fixup deadbeef"},
		{"d deadbeef", "drop deadbeef", "drop deadbeef"},
		{"x echo hello world", "exec echo hello world", "exec echo hello world"},
		{"l mylabel", "label mylabel", "label mylabel"},
		{"r mylabel", "reset mylabel", "reset mylabel"},
		{"m -c abc123 feature_branch", "merge -c abc123 feature_branch", "merge -c abc123 feature_branch"},
		{"u refs/heads/main", "update-ref refs/heads/main", "update-ref refs/heads/main"},
	}
	for _, tc := range cases {
		t.Run(tc.alias, func(t *testing.T) {
			alias := Parse(tc.alias)
			full := Parse(tc.full)
			assert.Equal(t, full, alias)
			assert.Equal(t, tc.want, alias.String())
		})
	}
}

func TestParseMerge(t *testing.T) {
	line := Parse("merge feature_branch")
	assert.Equal(t, Line{Kind: KindMerge, Label: "feature_branch"}, line)

	line = Parse("m feature_branch")
	assert.Equal(t, "merge feature_branch", line.String())

	line = Parse("merge -C abc123 feature_branch")
	assert.Equal(t, Line{Kind: KindMerge, Commit: "abc123", Label: "feature_branch"}, line)
	assert.Equal(t, "merge -c abc123 feature_branch", line.String())

	// the flag may follow the label
	line = Parse("merge feature_branch -c abc123")
	assert.Equal(t, "merge -c abc123 feature_branch", line.String())

	_, ok := line.CommitID()
	assert.False(t, ok, "merge lines do not expose a commit id")
}

func TestParseMalformedDegradesToComment(t *testing.T) {
	inputs := []string{
		"pick",
		"edit",
		"exec",
		"label",
		"reset",
		"merge",
		"merge -c abc123",
		"merge label -c",
		"merge -c a -c b label",
		"update-ref",
		"update-ref refs/heads/a refs/heads/b",
		"frobnicate abc123",
		"PICK abc123",
		"break",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			line := Parse(input)
			assert.Equal(t, Comment(input), line)
			assert.Equal(t, input, line.String())
		})
	}
}

func TestParseKeepsTrailingTokens(t *testing.T) {
	line := Parse("pick abc123   Add   spaced  message")
	assert.Equal(t, []string{"Add", "spaced", "message"}, line.Trailing())
	assert.Equal(t, "pick abc123 Add spaced message", line.String())

	line = Parse("exec go test ./...")
	assert.Equal(t, []string{"go", "test", "./..."}, line.Command)
	assert.Nil(t, line.Trailing())
}

func TestCommitID(t *testing.T) {
	cases := map[string]bool{
		"pick a":       true,
		"reword a":     true,
		"edit a":       true,
		"squash a":     true,
		"fixup a":      true,
		"drop a":       true,
		"exec a":       false,
		"label a":      false,
		"reset a":      false,
		"merge -c a b": false,
		"update-ref a": false,
		"# pick a":     false,
	}
	for input, want := range cases {
		id, ok := Parse(input).CommitID()
		assert.Equal(t, want, ok, "input: %q", input)
		if want {
			assert.Equal(t, "a", id)
		}
	}
}

func TestWithCommitCopiesRest(t *testing.T) {
	rest := []string{"one", "two"}
	line := WithCommit(KindSquash, "abc", rest)
	rest[0] = "changed"
	assert.Equal(t, "squash abc one two", line.String())
}

func TestClassify(t *testing.T) {
	cases := []struct {
		input string
		want  Style
	}{
		{"# comment", Style{Category: CategoryNeutral, Emphasis: EmphasisDim}},
		{"", Style{Category: CategoryNeutral, Emphasis: EmphasisDim}},
		{"drop abc", Style{Category: CategoryNeutral, Emphasis: EmphasisDimStrike}},
		{"edit abc", Style{Category: CategoryEdit}},
		{"reword abc", Style{Category: CategoryReword}},
		{"squash abc", Style{Category: CategorySquash}},
		{"fixup abc", Style{Category: CategoryFixup}},
		{"exec make", Style{Category: CategoryExec}},
		{"pick abc", Style{}},
		{"label onto", Style{}},
		{"reset onto", Style{}},
		{"merge onto", Style{}},
		{"update-ref refs/heads/x", Style{}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Parse(tc.input).Classify(), "input: %q", tc.input)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "comment", KindComment.String())
	assert.Equal(t, "update-ref", KindUpdateRef.String())
	assert.Equal(t, "", KindComment.Keyword())
	assert.Equal(t, "unknown", Kind(99).String())
}
