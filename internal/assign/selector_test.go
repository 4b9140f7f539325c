package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSelectNextFairness - N seleções seguidas cobrem o pool inteiro sem repetir
func TestSelectNextFairness(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e"}

	for startCursor := -1; startCursor < len(pool); startCursor++ {
		seen := map[string]int{}
		cursor := startCursor

		for i := 0; i < len(pool); i++ {
			selected, newCursor, err := SelectNext(pool, cursor, nil)
			assert.NoError(t, err)
			seen[selected]++
			cursor = newCursor
		}

		for _, id := range pool {
			assert.Equal(t, 1, seen[id], "usuário %s deveria receber exatamente 1 lead (cursor inicial %d)", id, startCursor)
		}
	}
}

// TestSelectNextOrder - pool [A,B,C] com cursor em A rende B, C, A
func TestSelectNextOrder(t *testing.T) {
	pool := []string{"A", "B", "C"}
	cursor := 0 // último atribuído foi A

	var got []string
	for i := 0; i < 3; i++ {
		selected, newCursor, err := SelectNext(pool, cursor, nil)
		assert.NoError(t, err)
		got = append(got, selected)
		cursor = newCursor
	}

	assert.Equal(t, []string{"B", "C", "A"}, got)
}

// TestSelectNextExclusion - o responsável atual nunca é sorteado de novo (pool >= 2)
func TestSelectNextExclusion(t *testing.T) {
	pool := []string{"a", "b", "c"}

	for cursor := 0; cursor < len(pool); cursor++ {
		for _, excluded := range pool {
			selected, _, err := SelectNext(pool, cursor, map[string]bool{excluded: true})
			assert.NoError(t, err)
			assert.NotEqual(t, excluded, selected)
		}
	}
}

// TestSelectNextSingleUserFallback - pool de 1 devolve o próprio excluído (progresso)
func TestSelectNextSingleUserFallback(t *testing.T) {
	pool := []string{"solo"}

	selected, newCursor, err := SelectNext(pool, 0, map[string]bool{"solo": true})

	assert.NoError(t, err)
	assert.Equal(t, "solo", selected)
	assert.Equal(t, 0, newCursor)
}

func TestSelectNextAllExcludedFallsBack(t *testing.T) {
	pool := []string{"a", "b"}
	exclude := map[string]bool{"a": true, "b": true}

	selected, _, err := SelectNext(pool, 0, exclude)

	assert.NoError(t, err)
	assert.Equal(t, "b", selected) // (0+1) mod 2, exclusão ignorada
}

func TestSelectNextEmptyPool(t *testing.T) {
	_, _, err := SelectNext(nil, 0, nil)
	assert.ErrorIs(t, err, ErrNoEligibleUsers)
}

// TestSelectNextDeterministic - mesma entrada, mesma saída, sempre
func TestSelectNextDeterministic(t *testing.T) {
	pool := []string{"x", "y", "z"}

	first, firstCursor, err := SelectNext(pool, 1, map[string]bool{"z": true})
	assert.NoError(t, err)

	for i := 0; i < 10; i++ {
		selected, cursor, err := SelectNext(pool, 1, map[string]bool{"z": true})
		assert.NoError(t, err)
		assert.Equal(t, first, selected)
		assert.Equal(t, firstCursor, cursor)
	}
}

func TestSelectNextNegativeCursorStartsAtHead(t *testing.T) {
	pool := []string{"a", "b", "c"}

	selected, cursor, err := SelectNext(pool, -1, nil)

	assert.NoError(t, err)
	assert.Equal(t, "a", selected)
	assert.Equal(t, 0, cursor)
}

func TestCursorFor(t *testing.T) {
	pool := []string{"a", "b", "c"}

	assert.Equal(t, 1, CursorFor(pool, "b"))
	assert.Equal(t, -1, CursorFor(pool, "saiu-do-pool"))
	assert.Equal(t, -1, CursorFor(pool, ""))
}
