package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeeper/pkg/session"
)

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode session.Mode
		want string
	}{
		{session.Viewing(""), "Viewing(none)"},
		{session.Viewing("7"), "Viewing(7)"},
		{session.Creating("a", ""), `Creating("a", "")`},
		{session.Editing("7", "t", "c"), `Editing(7, "t", "c")`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.mode.String())
	}
}

func TestMode_References(t *testing.T) {
	assert.True(t, session.Viewing("1").References("1"))
	assert.False(t, session.Viewing("").References(""))
	assert.True(t, session.Editing("1", "", "").References("1"))
	assert.False(t, session.Creating("", "").References("1"))
	assert.False(t, session.Viewing("2").References("1"))
}

func TestDraft_Valid(t *testing.T) {
	assert.True(t, session.Draft{Title: "a", Content: "b"}.Valid())
	assert.False(t, session.Draft{Title: " \t", Content: "b"}.Valid())
	assert.False(t, session.Draft{Title: "a", Content: "\n"}.Valid())
	assert.False(t, session.Draft{}.Valid())
}

func TestParseField(t *testing.T) {
	f, err := session.ParseField(" Title ")
	require.NoError(t, err)
	assert.Equal(t, session.FieldTitle, f)

	f, err = session.ParseField("content")
	require.NoError(t, err)
	assert.Equal(t, session.FieldContent, f)

	_, err = session.ParseField("body")
	assert.Error(t, err)
}

func TestSnapshot_Selected(t *testing.T) {
	snap := session.Snapshot{
		Mode:  session.Viewing("1"),
		Notes: nil,
	}
	_, ok := snap.Selected()
	assert.False(t, ok, "selection no longer in the store")

	snap.Notes = append(snap.Notes, mkNote("1", "a", "b", t0))
	n, ok := snap.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", n.Title)

	snap.Mode = session.Editing("1", "a", "b")
	_, ok = snap.Selected()
	assert.False(t, ok)
}

func TestFeedback_Sink(t *testing.T) {
	var fb session.Feedback
	var sink session.FeedbackSink = &fb

	sink.SetError("bad")
	sink.SetInfo("good")
	assert.Equal(t, session.Feedback{Error: "bad", Info: "good"}, fb)

	sink.SetError("")
	assert.Equal(t, session.Feedback{Info: "good"}, fb)

	sink.Clear()
	assert.Equal(t, session.Feedback{}, fb)
}
