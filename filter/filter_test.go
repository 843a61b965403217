package filter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
		wantPos     bool
	}{
		{
			name:       "valid expression",
			expression: `contains(thirdname, "acme")`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `contains(thirdname, "unclosed`,
			wantErr:    true,
			wantPos:    true,
		},
		{
			name:        "dangling operator",
			expression:  `status ==`,
			wantErr:     true,
			errContains: "position",
			wantPos:     true,
		},
		{
			name:       "complex expression",
			expression: `num(totalAmountTaxesInc) > 100 and status != "cancelled" and daysSince(parseDate(created)) < 30`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.ErrorAs(t, err, &compErr)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				if tt.wantPos {
					assert.GreaterOrEqual(t, compErr.Position, 0)
				} else {
					assert.Equal(t, -1, compErr.Position)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestFilter_Match(t *testing.T) {
	created := time.Now().AddDate(0, 0, -3).Format("2006-01-02 15:04:05")
	row := Row{
		"id":                  "12",
		"thirdname":           "ACME Corp",
		"totalAmountTaxesInc": "150.50",
		"status":              "due",
		"created":             created,
		"tags":                []any{"vip", "eu"},
	}

	tests := []struct {
		expression string
		want       bool
	}{
		{`contains(thirdname, "acme")`, true},
		{`startsWith(thirdname, "acme")`, true},
		{`endsWith(thirdname, "inc")`, false},
		{`num(totalAmountTaxesInc) > 100`, true},
		{`num(totalAmountTaxesInc) > 200`, false},
		{`status == "due" and id == "12"`, true},
		{`daysSince(parseDate(created)) < 30`, true},
		{`daysSince(parseDate(created)) > 30`, false},
		{`"vip" in tags`, true},
		{`row.status == "due"`, true},
		{`missing == nil`, true},
		{`lower(thirdname) == "acme corp"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)

			got, err := f.Match(row)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	rows := []Row{
		{"id": "1", "amount": "10"},
		{"id": "2", "amount": "250"},
		{"id": "3", "amount": "99.99"},
	}

	f, err := Compile(`num(amount) >= 99.99`)
	require.NoError(t, err)

	matches, err := f.Apply(rows)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "2", matches[0].ID())
	assert.Equal(t, "3", matches[1].ID())
}

func TestRows(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantIDs []string
	}{
		{
			name:    "keyed result",
			payload: `{"infos":{"nbtotal":"3"},"result":{"10":{"id":"10"},"2":{"id":"2"},"7":{"id":"7"}}}`,
			wantIDs: []string{"2", "7", "10"},
		},
		{
			name:    "array result",
			payload: `{"result":[{"id":"a"},{"id":"b"},"skipped"]}`,
			wantIDs: []string{"a", "b"},
		},
		{
			name:    "bare array",
			payload: `[{"id":1},{"id":2}]`,
			wantIDs: []string{"1", "2"},
		},
		{
			name:    "single object",
			payload: `{"id":"42","name":"one"}`,
			wantIDs: []string{"42"},
		},
		{
			name:    "empty keyed result",
			payload: `{"result":{}}`,
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Rows(json.RawMessage(tt.payload))
			require.NoError(t, err)

			ids := make([]string, 0, len(rows))
			for _, r := range rows {
				ids = append(ids, r.ID())
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	_, err := Rows(json.RawMessage(`{broken`))
	require.Error(t, err)
}

func TestCompiler_Cache(t *testing.T) {
	c := NewCompiler(WithCache(2))

	first, err := c.Compile(`id == "1"`)
	require.NoError(t, err)
	again, err := c.Compile(` id == "1" `)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, c.Size())

	_, err = c.Compile(`id == "2"`)
	require.NoError(t, err)
	_, err = c.Compile(`id == "3"`)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	// Oldest entry was evicted
	evicted, err := c.Compile(`id == "1"`)
	require.NoError(t, err)
	assert.NotSame(t, first, evicted)

	c.Clear()
	assert.Equal(t, 0, c.Size())

	uncached := NewCompiler(WithCache(0))
	_, err = uncached.Compile(`true`)
	require.NoError(t, err)
	assert.Equal(t, 0, uncached.Size())
}

func TestLRUCache(t *testing.T) {
	cache := newLRUCache[int](2)
	cache.Put("a", 1)
	cache.Put("b", 2)

	// Touch "a" so "b" becomes the oldest
	v, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	cache.Put("c", 3)
	_, ok = cache.Get("b")
	assert.False(t, ok)

	cache.Put("a", 10)
	v, _ = cache.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, cache.Size())
}
