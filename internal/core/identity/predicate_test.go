package identity

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestPredicate_Matches(t *testing.T) {
	p := BuildOrPredicate("OS-001", "uuid-x")

	assert.True(t, p.Matches("OS-001"))
	assert.True(t, p.Matches("uuid-x"))
	assert.False(t, p.Matches("OS-002"))
	assert.False(t, p.Matches(""))
	assert.False(t, p.Matches("os-001"))
}

func TestPredicate_Degenerate(t *testing.T) {
	p := BuildOrPredicate("OS-9999-999", "OS-9999-999")

	assert.True(t, p.Degenerate())
	assert.Equal(t, []string{"OS-9999-999"}, p.Values())
	assert.True(t, p.Matches("OS-9999-999"))
	assert.False(t, p.Matches("other"))

	clause, args := p.SQL("os_id", Dollar, 1)
	assert.Equal(t, "(os_id = $1 OR os_id = $2)", clause)
	assert.Equal(t, []any{"OS-9999-999", "OS-9999-999"}, args)
}

func TestPredicate_SQL(t *testing.T) {
	p := BuildOrPredicate("OS-001", "11111111-1111-1111-1111-111111111111")

	testCases := map[string]struct {
		ph       Placeholder
		next     int
		expected string
	}{
		"dollar from one":   {ph: Dollar, next: 1, expected: "(os_id = $1 OR os_id = $2)"},
		"dollar after args": {ph: Dollar, next: 3, expected: "(os_id = $3 OR os_id = $4)"},
		"question":          {ph: Question, next: 1, expected: "(os_id = ? OR os_id = ?)"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			clause, args := p.SQL("os_id", tc.ph, tc.next)
			assert.Equal(t, tc.expected, clause)
			assert.Equal(t, []any{"OS-001", "11111111-1111-1111-1111-111111111111"}, args)
		})
	}
}

func TestPredicate_SQLAgainstDatabase(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE os_comments (id INTEGER PRIMARY KEY, os_id TEXT NOT NULL, body TEXT NOT NULL)`)
	require.NoError(t, err)

	rows := []struct {
		osID string
		body string
	}{
		{"OS-001", "legacy row keyed by number"},
		{"uuid-x", "row keyed by surrogate"},
		{"OS-002", "another order"},
		{"uuid-y", "another order by surrogate"},
	}
	for _, r := range rows {
		_, err := db.ExecContext(ctx, `INSERT INTO os_comments (os_id, body) VALUES (?, ?)`, r.osID, r.body)
		require.NoError(t, err)
	}

	testCases := map[string]struct {
		predicate Predicate
		expected  []string
	}{
		"either form": {
			predicate: BuildOrPredicate("OS-001", "uuid-x"),
			expected:  []string{"OS-001", "uuid-x"},
		},
		"degenerate unresolved": {
			predicate: BuildOrPredicate("OS-002", "OS-002"),
			expected:  []string{"OS-002"},
		},
		"no match": {
			predicate: BuildOrPredicate("OS-404", "OS-404"),
			expected:  nil,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			clause, args := tc.predicate.SQL("os_id", Question, 1)
			res, err := db.QueryContext(ctx, `SELECT os_id FROM os_comments WHERE `+clause+` ORDER BY id`, args...)
			require.NoError(t, err)
			defer func() { _ = res.Close() }()

			var got []string
			for res.Next() {
				var v string
				require.NoError(t, res.Scan(&v))
				got = append(got, v)
			}
			require.NoError(t, res.Err())
			assert.Equal(t, tc.expected, got)
		})
	}
}
