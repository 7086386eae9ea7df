package ledgerview

import (
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-bank-client/internal/domain"
	"github.com/go-petr/pet-bank-client/internal/test"
)

var now = time.Date(2024, time.November, 20, 12, 0, 0, 0, time.UTC)

func TestForAccount(t *testing.T) {
	t.Parallel()

	tx1 := test.RandomTransaction(1, now.Add(-time.Hour))
	tx2 := test.RandomTransaction(2, now.Add(-2*time.Hour))
	tx3 := test.RandomTransaction(1, now.Add(-3*time.Hour))
	tx4 := test.RandomTransaction(3, now.Add(-4*time.Hour))

	v := New()
	v.Load([]domain.Transaction{tx1, tx2, tx3, tx4})

	testCases := []struct {
		name      string
		accountID int64
		want      []domain.Transaction
	}{
		{
			name:      "TwoMatches",
			accountID: 1,
			want:      []domain.Transaction{tx1, tx3},
		},
		{
			name:      "OneMatch",
			accountID: 3,
			want:      []domain.Transaction{tx4},
		},
		{
			name:      "UnknownAccount",
			accountID: 42,
			want:      nil,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			seq := v.ForAccount(tc.accountID)

			first := slices.Collect(seq)
			second := slices.Collect(seq)

			if diff := cmp.Diff(tc.want, first); diff != "" {
				t.Errorf("ForAccount(%d) mismatch (-want +got):\n%s", tc.accountID, diff)
			}

			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("ForAccount(%d) is not restartable (-first +second):\n%s", tc.accountID, diff)
			}
		})
	}
}

func TestForAccountKeepsSnapshot(t *testing.T) {
	t.Parallel()

	tx1 := test.RandomTransaction(1, now)

	v := New()
	v.Load([]domain.Transaction{tx1})

	seq := v.ForAccount(1)

	v.Load(nil)

	require.Len(t, slices.Collect(seq), 1)
	require.Empty(t, slices.Collect(v.ForAccount(1)))
}

func TestForAccountStopsEarly(t *testing.T) {
	t.Parallel()

	v := New()
	v.Load([]domain.Transaction{
		test.RandomTransaction(1, now),
		test.RandomTransaction(1, now),
		test.RandomTransaction(1, now),
	})

	n := 0
	for range v.ForAccount(1) {
		n++
		if n == 2 {
			break
		}
	}

	require.Equal(t, 2, n)
}

func TestRecentFirst(t *testing.T) {
	t.Parallel()

	oldest := test.RandomTransaction(1, now.Add(-72*time.Hour))
	middle := test.RandomTransaction(1, now.Add(-5*time.Hour))
	newest := test.RandomTransaction(1, now.Add(-time.Minute))
	sameAsMiddle := test.RandomTransaction(1, now.Add(-5*time.Hour))

	input := []domain.Transaction{middle, oldest, newest, sameAsMiddle}
	original := slices.Clone(input)

	got := RecentFirst(slices.Values(input), 0)
	want := []domain.Transaction{newest, middle, sameAsMiddle, oldest}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RecentFirst mismatch (-want +got):\n%s", diff)
	}

	top := RecentFirst(slices.Values(input), 3)
	if diff := cmp.Diff(want[:3], top); diff != "" {
		t.Errorf("RecentFirst(limit 3) mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(original, input); diff != "" {
		t.Errorf("RecentFirst mutated its input (-before +after):\n%s", diff)
	}

	require.Len(t, RecentFirst(slices.Values(input), 10), 4)
}

func TestOrphans(t *testing.T) {
	t.Parallel()

	known := test.RandomTransaction(1, now)
	orphan := test.RandomTransaction(9, now)

	v := New()
	v.Load([]domain.Transaction{known, orphan})

	got := v.Orphans(func(id int64) bool { return id == 1 })

	if diff := cmp.Diff([]domain.Transaction{orphan}, got); diff != "" {
		t.Errorf("Orphans mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, 2, v.Len())
	require.Len(t, slices.Collect(v.All()), 2)
}
