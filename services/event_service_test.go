package services

import (
	"testing"
	"time"

	"ze-club-system/models"

	"github.com/stretchr/testify/require"
)

func TestEventSlugsStayUnique(t *testing.T) {
	db := openTestDB(t)
	svc := NewEventService(db)

	first, err := svc.Create(EventInput{Title: "Summer Showdown"}, "admin-1")
	require.NoError(t, err)
	require.Equal(t, "summer-showdown", first.Slug)

	second, err := svc.Create(EventInput{Title: "Summer Showdown"}, "admin-1")
	require.NoError(t, err)
	require.NotEqual(t, first.Slug, second.Slug)
	require.Contains(t, second.Slug, "summer-showdown-")
}

func TestEventPublicFeedOnlyShowsPublished(t *testing.T) {
	db := openTestDB(t)
	svc := NewEventService(db)

	_, err := svc.Create(EventInput{Title: "Draft Event"}, "admin-1")
	require.NoError(t, err)
	published, err := svc.Create(EventInput{Title: "Live Event", Status: "published"}, "admin-1")
	require.NoError(t, err)

	feed, err := svc.ListPublished()
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.Equal(t, published.ID, feed[0].ID)

	got, err := svc.GetBySlug(published.Slug)
	require.NoError(t, err)
	require.Equal(t, published.ID, got.ID)

	// Draft pages are not publicly addressable.
	_, err = svc.GetBySlug("draft-event")
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventArchiveRemovesFromFeed(t *testing.T) {
	db := openTestDB(t)
	svc := NewEventService(db)

	event, err := svc.Create(EventInput{Title: "Old Event", Status: "published"}, "admin-1")
	require.NoError(t, err)

	require.NoError(t, svc.Archive(event.ID))

	feed, err := svc.ListPublished()
	require.NoError(t, err)
	require.Empty(t, feed)

	require.ErrorIs(t, svc.Archive("nonexistent"), ErrEventNotFound)
}

func TestSchedulerStatePublishableByQuery(t *testing.T) {
	db := openTestDB(t)
	svc := NewEventService(db)

	past := time.Now().UTC().Add(-time.Minute)
	due, err := svc.Create(EventInput{Title: "Due Event", Status: "scheduled", PublishAt: &past}, "admin-1")
	require.NoError(t, err)

	future := time.Now().UTC().Add(time.Hour)
	_, err = svc.Create(EventInput{Title: "Future Event", Status: "scheduled", PublishAt: &future}, "admin-1")
	require.NoError(t, err)

	// Mirrors the query the publish job runs every minute.
	var found []models.Event
	require.NoError(t, db.
		Where("status = ? AND publish_at <= ?", models.EventStatusScheduled, time.Now().UTC()).
		Find(&found).Error)
	require.Len(t, found, 1)
	require.Equal(t, due.ID, found[0].ID)
}
