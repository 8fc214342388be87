package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitgroww/roomie/internal/candidates"
	"github.com/vitgroww/roomie/internal/roommate"
	"github.com/vitgroww/roomie/internal/validator"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "roomie.db"), validator.New())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func candidate(id string, block roommate.Block, mess roommate.Mess) *candidates.Candidate {
	return &candidates.Candidate{
		ID:   id,
		Name: "Student " + id,
		Bio:  "bio " + id,
		Profile: roommate.Profile{
			PreferredBlock: block,
			MessPreference: mess,
			RoomType:       roommate.RoomThreeBed,
			ACPreference:   roommate.ACNo,
			SleepTime:      roommate.ScheduleLate,
			WakeTime:       roommate.ScheduleModerate,
			StudyStyle:     roommate.StudyMusic,
			Cleanliness:    roommate.CleanModerate,
			SocialLevel:    roommate.SocialAmbivert,
			Interests:      []string{"Coding", "Cricket"},
		},
	}
}

func TestUpsertAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.UpsertMany(ctx, []*candidates.Candidate{
		candidate("c-1", roommate.BlockA, roommate.MessVeg),
		candidate("c-2", roommate.BlockB, roommate.MessNonVeg),
	}))

	got, found, err := s.Get(ctx, "c-2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Student c-2", got.Name)
	assert.Equal(t, roommate.BlockB, got.Profile.PreferredBlock)
	assert.Equal(t, []string{"Coding", "Cricket"}, got.Profile.Interests)

	_, found, err = s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	// Upsert replaces existing rows.
	updated := candidate("c-1", roommate.BlockC, roommate.MessVeg)
	require.NoError(t, s.UpsertMany(ctx, []*candidates.Candidate{updated}))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, _, err = s.Get(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, roommate.BlockC, got.Profile.PreferredBlock)
}

func TestUpsertRejectsInvalidCandidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	bad := candidate("c-1", "Z", roommate.MessVeg)
	err := s.UpsertMany(ctx, []*candidates.Candidate{candidate("c-0", roommate.BlockA, roommate.MessVeg), bad})
	require.Error(t, err)

	var verr *validator.ValidationError
	assert.True(t, errors.As(err, &verr))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "transaction must be rolled back")
}

func TestCreateAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	c := candidate("", roommate.BlockA, roommate.MessVeg)
	created, err := s.Create(ctx, c)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = s.Create(ctx, candidate(created.ID, roommate.BlockA, roommate.MessVeg))
	assert.ErrorIs(t, err, ErrDuplicateID)

	deleted, err := s.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListFiltersAndPaging(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.UpsertMany(ctx, []*candidates.Candidate{
		candidate("c-1", roommate.BlockA, roommate.MessVeg),
		candidate("c-2", roommate.BlockA, roommate.MessNonVeg),
		candidate("c-3", roommate.BlockA, roommate.MessVeg),
		candidate("c-4", roommate.BlockB, roommate.MessVeg),
	}))

	page, total, err := s.List(ctx, ListParams{Block: roommate.BlockA, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"c-1", "c-2"}, page.IDs())

	page, total, err = s.List(ctx, ListParams{Block: roommate.BlockA, Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"c-3"}, page.IDs())

	page, total, err = s.List(ctx, ListParams{Block: roommate.BlockA, Mess: roommate.MessVeg})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"c-1", "c-3"}, page.IDs())

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, all.Len())
}

func TestScanRejectsOutOfDomainRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.UpsertMany(ctx, []*candidates.Candidate{candidate("c-1", roommate.BlockA, roommate.MessVeg)}))

	_, err := s.db.ExecContext(ctx, `UPDATE candidates SET mess_preference = 'vegan' WHERE id = 'c-1'`)
	require.NoError(t, err)

	_, _, err = s.Get(ctx, "c-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mess_preference")
}

func TestCreateConcurrentDuplicates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	const workers = 20
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.Create(ctx, candidate("dup", roommate.BlockA, roommate.MessVeg))
		}()
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateID)
	}
	assert.Equal(t, 1, created)
}

func TestListParamsEffective(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   ListParams
		want ListParams
	}{
		{"defaults", ListParams{}, ListParams{Limit: 20}},
		{"capped", ListParams{Limit: 1000, Offset: 5}, ListParams{Limit: 200, Offset: 5}},
		{"negative offset", ListParams{Limit: 3, Offset: -1}, ListParams{Limit: 3}},
		{"filters kept", ListParams{Block: roommate.BlockB}, ListParams{Limit: 20, Block: roommate.BlockB}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.in.Effective())
		})
	}
}
