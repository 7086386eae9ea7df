package accountregistry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-bank-client/internal/domain"
	"github.com/go-petr/pet-bank-client/internal/test"
)

func TestLoad(t *testing.T) {
	a1 := test.AccountWithBalance("A1", "50.00")
	a2 := test.AccountWithBalance("A2", "10.00")
	a3 := test.AccountWithBalance("A3", "0.00")

	testCases := []struct {
		name       string
		initial    []domain.Account
		selectNum  string
		reload     []domain.Account
		wantNumber string
		wantOK     bool
	}{
		{
			name:       "EmptyRegistry",
			reload:     nil,
			wantNumber: "",
			wantOK:     false,
		},
		{
			name:       "FirstAccountSelectedOnFirstLoad",
			reload:     []domain.Account{a1, a2},
			wantNumber: a1.Number,
			wantOK:     true,
		},
		{
			name:       "SelectionKeptWhenStillPresent",
			initial:    []domain.Account{a1, a2, a3},
			selectNum:  a2.Number,
			reload:     []domain.Account{a3, a2},
			wantNumber: a2.Number,
			wantOK:     true,
		},
		{
			name:       "FallbackToFirstWhenSelectionRemoved",
			initial:    []domain.Account{a1, a2},
			selectNum:  a2.Number,
			reload:     []domain.Account{a3, a1},
			wantNumber: a3.Number,
			wantOK:     true,
		},
		{
			name:       "UndefinedWhenReloadedEmpty",
			initial:    []domain.Account{a1},
			selectNum:  a1.Number,
			reload:     []domain.Account{},
			wantNumber: "",
			wantOK:     false,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := New()
			r.Load(tc.initial)

			if tc.selectNum != "" {
				require.True(t, r.Select(tc.selectNum))
			}

			r.Load(tc.reload)

			got, ok := r.Current()
			require.Equal(t, tc.wantOK, ok)
			require.Equal(t, tc.wantNumber, got.Number)
		})
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	t.Parallel()

	accounts := []domain.Account{
		test.AccountWithBalance("A1", "50.00"),
		test.AccountWithBalance("A2", "10.00"),
	}

	r := New()
	r.Load(accounts)
	require.True(t, r.Select("A2"))

	before, _ := r.Current()
	r.Load(accounts)
	after, ok := r.Current()

	require.True(t, ok)

	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("Current() mismatch after reload (-before +after):\n%s", diff)
	}

	if diff := cmp.Diff(accounts, r.Accounts()); diff != "" {
		t.Errorf("Accounts() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCopiesInput(t *testing.T) {
	t.Parallel()

	accounts := []domain.Account{test.AccountWithBalance("A1", "50.00")}

	r := New()
	r.Load(accounts)

	accounts[0].Number = "changed"

	got, ok := r.Current()
	require.True(t, ok)
	require.Equal(t, "A1", got.Number)
}

func TestSelect(t *testing.T) {
	t.Parallel()

	a1 := test.AccountWithBalance("A1", "50.00")
	a2 := test.AccountWithBalance("A2", "10.00")

	r := New()

	require.False(t, r.Select("A1"), "select on empty registry must be a no-op")

	_, ok := r.Current()
	require.False(t, ok)

	r.Load([]domain.Account{a1, a2})

	require.False(t, r.Select("missing"))

	got, ok := r.Current()
	require.True(t, ok)
	require.Equal(t, a1.Number, got.Number)

	require.True(t, r.Select(a2.Number))

	got, ok = r.Current()
	require.True(t, ok)
	require.Equal(t, a2, got)
}

func TestFind(t *testing.T) {
	t.Parallel()

	a1 := test.AccountWithBalance("A1", "50.00")

	r := New()
	r.Load([]domain.Account{a1})

	got, ok := r.Find("A1")
	require.True(t, ok)
	require.Equal(t, a1, got)

	_, ok = r.Find("A2")
	require.False(t, ok)

	require.True(t, r.HasID(a1.ID))
	require.False(t, r.HasID(a1.ID+1))
	require.Equal(t, 1, r.Len())
}
