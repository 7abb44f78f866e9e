package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvergnes/edtcal/internal/domain"
	"github.com/rvergnes/edtcal/internal/testutil"
)

func TestRulesRepo_EmptyStoreYieldsEmptyRules(t *testing.T) {
	repo := NewSQLiteRulesRepo(NewSQLiteKVRepo(testutil.NewTestDB(t)))

	rules, err := repo.Get(context.Background())

	require.NoError(t, err)
	assert.Empty(t, rules.Teachers.Rename)
	assert.Empty(t, rules.Subjects.Hide)
}

func TestRulesRepo_RoundTrip(t *testing.T) {
	repo := NewSQLiteRulesRepo(NewSQLiteKVRepo(testutil.NewTestDB(t)))
	ctx := context.Background()

	rules := domain.NewRules().
		WithRename(domain.CategoryTeachers, "DOE J", "Jane Doe").
		WithHide(domain.CategoryPromos, "STAFF").
		WithRename(domain.CategorySubjects, "Algo", "Algorithmique")
	require.NoError(t, repo.Put(ctx, rules))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Teachers.Rename["DOE J"])
	assert.True(t, got.Promos.Hide["STAFF"])
	assert.Equal(t, "Algorithmique", got.Subjects.Rename["Algo"])
}

func TestRulesRepo_PutReplacesPrevious(t *testing.T) {
	repo := NewSQLiteRulesRepo(NewSQLiteKVRepo(testutil.NewTestDB(t)))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, domain.NewRules().WithHide(domain.CategoryTeachers, "STAFF")))
	require.NoError(t, repo.Put(ctx, domain.NewRules()))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Teachers.Hide)
}
