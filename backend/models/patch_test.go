package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip sends an update through JSON the way the client does.
func roundTrip[T any](t *testing.T, u T) T {
	t.Helper()
	b, err := json.Marshal(u)
	require.NoError(t, err)
	var decoded T
	require.NoError(t, json.Unmarshal(b, &decoded))
	return decoded
}

func TestResubmittingUnchangedItemKeepsVersion(t *testing.T) {
	seconds := 90
	item := ContentItemData{
		Type: ContentVideo, Title: "Aleph", Data: "https://example/a.mp4",
		Duration: &seconds, Tags: []string{"letters"},
	}.ToContentItem("l1")

	item.Apply(roundTrip(t, item.Form().Patch()))
	assert.Equal(t, 1, item.Version)
	assert.Equal(t, []string{"letters"}, item.Tags)
	require.NotNil(t, item.Duration)
	assert.Equal(t, 90, *item.Duration)
}

func TestClearingOptionalContentFields(t *testing.T) {
	seconds := 90
	size := int64(2048)
	item := ContentItemData{
		Type: ContentVideo, Title: "Aleph", Data: "https://example/a.mp4",
		Duration: &seconds, Size: &size, Tags: []string{"a"},
	}.ToContentItem("l1")

	form := item.Form()
	form.Tags = nil
	form.Duration = nil
	form.Size = nil
	patch := roundTrip(t, form.Patch())

	require.NotNil(t, patch.Tags)
	assert.ElementsMatch(t, []string{FieldDuration, FieldSize}, patch.Unset)

	item.Apply(patch)
	assert.Empty(t, item.Tags)
	assert.Nil(t, item.Duration)
	assert.Nil(t, item.Size)
	assert.Equal(t, 2, item.Version)
}

func TestPartialContentUpdateLeavesTagsAlone(t *testing.T) {
	item := ContentItemData{Type: ContentText, Title: "Aleph", Data: "x", Tags: []string{"a"}}.ToContentItem("l1")

	title := "Bet"
	item.Apply(roundTrip(t, ContentItemUpdate{Title: &title}))
	assert.Equal(t, []string{"a"}, item.Tags)
	assert.Equal(t, 2, item.Version)
}

func TestClearingLiveSessionDate(t *testing.T) {
	when := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	lesson := LessonData{
		Title: "Live Q&A", Type: LessonLiveSession, Order: 1,
		EstimatedCompletionTime: 60, LiveSessionDate: &when,
	}.ToLesson("s1")

	lesson.Apply(roundTrip(t, lesson.Form().Patch()))
	require.NotNil(t, lesson.LiveSessionDate)
	assert.True(t, when.Equal(*lesson.LiveSessionDate))

	form := lesson.Form()
	form.LiveSessionDate = nil
	lesson.Apply(roundTrip(t, form.Patch()))
	assert.Nil(t, lesson.LiveSessionDate)
}

func TestUnsetRejectsUnknownFields(t *testing.T) {
	assert.Error(t, Validate(&ContentItemUpdate{Unset: []string{"title"}}))
	assert.NoError(t, Validate(&ContentItemUpdate{Unset: []string{FieldSize}}))
	assert.Error(t, Validate(&LessonUpdate{Unset: []string{FieldSize}}))
}
