package providers

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRepo(t *testing.T) *InMemoryRepository {
	t.Helper()
	repo := NewInMemoryRepository()
	repo.AddProvider(Provider{ID: "dr-mehta", ServiceType: "cosmetology", Name: "Dr. Anita Mehta", Qualification: "MD Dermatology", ExperienceYrs: 12, Rating: 4.8, Active: true})
	repo.AddProvider(Provider{ID: "dr-rao", ServiceType: "counselling", Name: "Dr. Kiran Rao", Qualification: "M.Phil Clinical Psychology", ExperienceYrs: 9, Rating: 4.6, Active: true})
	repo.AddProvider(Provider{ID: "dr-gone", ServiceType: "cosmetology", Name: "Dr. Left Practice", Active: false})
	return repo
}

func TestListProvidersFiltersTypeAndActive(t *testing.T) {
	repo := seedRepo(t)

	list, err := repo.ListProviders(context.Background(), "cosmetology")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "dr-mehta", list[0].ID)
}

func TestListSlotsSkipsBookedAndPast(t *testing.T) {
	repo := seedRepo(t)
	now := time.Now()
	repo.AddSlot(Slot{ID: "s-past", ProviderID: "dr-mehta", StartsAt: now.Add(-time.Hour), DurationMins: 30})
	repo.AddSlot(Slot{ID: "s-taken", ProviderID: "dr-mehta", StartsAt: now.Add(2 * time.Hour), DurationMins: 30, Booked: true})
	repo.AddSlot(Slot{ID: "s-open", ProviderID: "dr-mehta", StartsAt: now.Add(4 * time.Hour), DurationMins: 30})
	repo.AddSlot(Slot{ID: "s-other", ProviderID: "dr-rao", StartsAt: now.Add(4 * time.Hour), DurationMins: 45})

	slots, err := repo.ListSlots(context.Background(), "dr-mehta", now)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "s-open", slots[0].ID)
}

func TestMarkSlotBookedOnce(t *testing.T) {
	repo := seedRepo(t)
	repo.AddSlot(Slot{ID: "s-1", ProviderID: "dr-mehta", StartsAt: time.Now().Add(time.Hour), DurationMins: 30})

	require.NoError(t, repo.MarkSlotBooked(context.Background(), "s-1"))
	assert.ErrorIs(t, repo.MarkSlotBooked(context.Background(), "s-1"), ErrSlotTaken)

	slot, err := repo.GetSlot(context.Background(), "s-1")
	require.NoError(t, err)
	assert.True(t, slot.Booked)
}

func TestMarkSlotBookedUnknown(t *testing.T) {
	repo := seedRepo(t)
	assert.ErrorIs(t, repo.MarkSlotBooked(context.Background(), "nope"), ErrSlotNotFound)
}

func TestPostgresMarkSlotBooked(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := newPostgresRepositoryWithConn(mock)

	mock.ExpectExec("UPDATE provider_slots SET booked").
		WithArgs("s-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.MarkSlotBooked(context.Background(), "s-1"))

	mock.ExpectExec("UPDATE provider_slots SET booked").
		WithArgs("s-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, repo.MarkSlotBooked(context.Background(), "s-1"), ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListSlots(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := newPostgresRepositoryWithConn(mock)

	from := time.Now()
	starts := from.Add(2 * time.Hour)
	rows := pgxmock.NewRows([]string{"id", "provider_id", "starts_at", "duration_mins", "booked"}).
		AddRow("s-1", "dr-mehta", starts, 30, false)
	mock.ExpectQuery("SELECT id, provider_id, starts_at, duration_mins, booked").
		WithArgs("dr-mehta", from).
		WillReturnRows(rows)

	slots, err := repo.ListSlots(context.Background(), "dr-mehta", from)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "s-1", slots[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
