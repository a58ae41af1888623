package progress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/vocabreview/internal/learning"
	"github.com/at-ishikawa/vocabreview/internal/testutil"
)

func TestDBRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDatabase(t)
	alice := NewDBRepository(db, "alice")
	bob := NewDBRepository(db, "bob")

	got, err := alice.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, alice.Save(ctx, Progress{Mode: learning.ModeLapse, Source: "toefl", Shuffle: true, ItemIDs: []int64{4, 2}, InitialCount: 3}))
	require.NoError(t, bob.Save(ctx, Progress{Mode: learning.ModeReview, Source: "gre", ItemIDs: []int64{1}}))
	require.NoError(t, alice.Save(ctx, Progress{Mode: learning.ModeReview, Source: "toefl", ItemIDs: []int64{7, 8, 9}}))
	require.NoError(t, alice.UpdateIndex(ctx, 2))
	require.NoError(t, alice.UpdateSnapshot(ctx, []int64{7, 9}))

	got, err = alice.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Progress{Mode: learning.ModeReview, Source: "toefl", ItemIDs: []int64{7, 9}, CurrentIndex: 2}, got)

	require.NoError(t, alice.Clear(ctx))
	got, err = alice.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = bob.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Progress{Mode: learning.ModeReview, Source: "gre", ItemIDs: []int64{1}}, got)
}
