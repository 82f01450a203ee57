package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndListAll(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	firstID := registry.Add("some-user", KindGoal, "Daily goal achieved", "message one", PriorityNormal)
	secondID := registry.Add("some-user", KindWithdrawal, "Withdrawal requested", "message two", PriorityNormal)
	registry.Add("other-user", KindSystem, "Maintenance", "message three", PriorityLow)

	// force a deterministic ordering
	registry.records[firstID].CreatedAt = time.Now().Add(-time.Hour)

	records := registry.ListAll("some-user")
	require.Len(t, records, 2)
	assert.Equal(t, secondID, records[0].ID)
	assert.Equal(t, firstID, records[1].ID)
	for _, record := range records {
		assert.Equal(t, "some-user", record.UserID)
		assert.False(t, record.Read)
	}
}

func TestListAllEmpty(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	assert.Empty(t, registry.ListAll("some-user"))
}

func TestMarkAsRead(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	id := registry.Add("some-user", KindGoal, "Daily goal achieved", "message", PriorityNormal)

	registry.MarkAsRead(id)
	records := registry.ListAll("some-user")
	require.Len(t, records, 1)
	assert.True(t, records[0].Read)

	// unknown identifiers are ignored
	registry.MarkAsRead("no-such-id")
	assert.Len(t, registry.ListAll("some-user"), 1)
}

func TestMarkAllAsRead(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	firstID := registry.Add("some-user", KindGoal, "one", "message", PriorityNormal)
	secondID := registry.Add("some-user", KindGoal, "two", "message", PriorityNormal)
	otherID := registry.Add("other-user", KindGoal, "three", "message", PriorityNormal)

	registry.MarkAllAsRead("some-user", []string{firstID})
	assert.True(t, registry.records[firstID].Read)
	assert.False(t, registry.records[secondID].Read)

	// an empty id set falls back to every notification of the user
	registry.MarkAllAsRead("some-user", nil)
	assert.True(t, registry.records[secondID].Read)
	assert.False(t, registry.records[otherID].Read)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	id := registry.Add("some-user", KindGoal, "one", "message", PriorityNormal)

	registry.Delete(id)
	assert.Empty(t, registry.ListAll("some-user"))

	// deleting twice is a no-op
	registry.Delete(id)
	assert.Empty(t, registry.ListAll("some-user"))
}

func TestSweep(t *testing.T) {
	t.Parallel()

	const retention = 30 * 24 * time.Hour

	registry := NewRegistry()
	readOldID := registry.Add("some-user", KindGoal, "read old", "message", PriorityNormal)
	unreadOldID := registry.Add("some-user", KindGoal, "unread old", "message", PriorityNormal)
	readFreshID := registry.Add("some-user", KindGoal, "read fresh", "message", PriorityNormal)

	registry.records[readOldID].CreatedAt = time.Now().Add(-31 * 24 * time.Hour)
	registry.records[unreadOldID].CreatedAt = time.Now().Add(-31 * 24 * time.Hour)
	registry.records[readFreshID].CreatedAt = time.Now().Add(-29 * 24 * time.Hour)
	registry.MarkAsRead(readOldID)
	registry.MarkAsRead(readFreshID)

	removed := registry.Sweep(retention)
	assert.Equal(t, 1, removed)

	records := registry.ListAll("some-user")
	require.Len(t, records, 2)
	ids := []string{records[0].ID, records[1].ID}
	assert.Contains(t, ids, unreadOldID)
	assert.Contains(t, ids, readFreshID)
	assert.NotContains(t, ids, readOldID)
}
