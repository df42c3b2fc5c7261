package crane

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample is the three-stack arrangement used throughout the tests:
//
//	    [D]
//	[N] [C]
//	[Z] [M] [P]
//	 1   2   3
func sample() Stacks {
	return Stacks{
		Stack("ZN"),
		Stack("MCD"),
		Stack("P"),
	}
}

func sampleMoves() []Move {
	return []Move{
		{Count: 1, From: 1, To: 0},
		{Count: 3, From: 0, To: 2},
		{Count: 2, From: 1, To: 0},
		{Count: 1, From: 0, To: 1},
	}
}

func TestApplyAllSample(t *testing.T) {
	stacks := sample()
	require.NoError(t, stacks.ApplyAll(sampleMoves()))

	want := Stacks{Stack("C"), Stack("M"), Stack("PDNZ")}
	if diff := cmp.Diff(want, stacks, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("final stacks mismatch (-want +got):\n%s", diff)
	}

	tops, err := stacks.Tops()
	require.NoError(t, err)
	assert.Equal(t, "CMZ", tops)
}

func TestApplyReversesMovedCrates(t *testing.T) {
	stacks := Stacks{Stack("ABC"), Stack("X")}
	require.NoError(t, stacks.Apply(Move{Count: 2, From: 0, To: 1}))

	assert.Equal(t, "A", stacks[0].String())
	assert.Equal(t, "XCB", stacks[1].String())
}

func TestApplyWholeStack(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
	}{
		{"lower to higher", 0, 2},
		{"higher to lower", 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stacks := Stacks{Stack("QRS"), Stack("T"), Stack("UVW")}
			bottom := stacks[tt.from][0]
			count := stacks[tt.from].Len()

			require.NoError(t, stacks.Apply(Move{Count: count, From: tt.from, To: tt.to}))

			assert.Equal(t, 0, stacks[tt.from].Len())
			top, ok := stacks[tt.to].Top()
			require.True(t, ok)
			assert.Equal(t, bottom, top)
		})
	}
}

func TestApplyZeroCount(t *testing.T) {
	stacks := sample()
	require.NoError(t, stacks.Apply(Move{Count: 0, From: 0, To: 1}))
	if diff := cmp.Diff(sample(), stacks); diff != "" {
		t.Errorf("zero-count move changed stacks (-want +got):\n%s", diff)
	}
}

func TestApplyInsufficientItems(t *testing.T) {
	stacks := sample()
	err := stacks.Apply(Move{Count: 3, From: 2, To: 0, Line: 7})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientItems))

	var insufficient *InsufficientItemsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 1, insufficient.Available)
	assert.Contains(t, err.Error(), "line 7")
	assert.Contains(t, err.Error(), "move 3 from 3 to 1")

	// nothing moved
	if diff := cmp.Diff(sample(), stacks); diff != "" {
		t.Errorf("failed move changed stacks (-want +got):\n%s", diff)
	}
}

func TestApplyUnknownStack(t *testing.T) {
	stacks := sample()
	err := stacks.Apply(Move{Count: 1, From: 0, To: 8})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStack))
	assert.Contains(t, err.Error(), "stack 9 does not exist")
}

func TestApplySelfMovePanics(t *testing.T) {
	stacks := sample()
	assert.Panics(t, func() {
		_ = stacks.Apply(Move{Count: 1, From: 1, To: 1})
	})
}

func TestApplyAllStopsAtFirstFailure(t *testing.T) {
	stacks := sample()
	moves := []Move{
		{Count: 1, From: 1, To: 0},
		{Count: 9, From: 2, To: 0},
		{Count: 1, From: 0, To: 2},
	}
	err := stacks.ApplyAll(moves)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientItems))
	assert.Contains(t, err.Error(), "step 2")

	// first move stays applied, third never ran
	assert.Equal(t, "ZND", stacks[0].String())
	assert.Equal(t, "P", stacks[2].String())
}

func TestApplyEach(t *testing.T) {
	stacks := sample()
	var seen []int
	applied, err := stacks.ApplyEach(sampleMoves(), func(step int, m Move) {
		seen = append(seen, step)
		assert.Equal(t, sampleMoves()[step-1], m)
	})
	require.NoError(t, err)
	assert.Equal(t, 4, applied)
	assert.Equal(t, []int{1, 2, 3, 4}, seen)
	assert.Equal(t, "PDNZ", stacks[2].String())
}

func TestApplyEachStopsAtFirstFailure(t *testing.T) {
	stacks := sample()
	moves := []Move{
		{Count: 1, From: 1, To: 0},
		{Count: 1, From: 2, To: 5},
		{Count: 1, From: 0, To: 2},
	}
	calls := 0
	applied, err := stacks.ApplyEach(moves, func(int, Move) { calls++ })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStack))
	assert.Contains(t, err.Error(), "step 2")
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "ZND", stacks[0].String())
}

func TestApplyAllConservesCrates(t *testing.T) {
	stacks := Stacks{Stack("ABCD"), Stack(""), Stack("EF"), Stack("G")}
	before := stacks.Total()
	moves := []Move{
		{Count: 4, From: 0, To: 1},
		{Count: 2, From: 1, To: 3},
		{Count: 3, From: 3, To: 0},
		{Count: 2, From: 2, To: 1},
		{Count: 0, From: 1, To: 2},
		{Count: 1, From: 1, To: 2},
	}
	require.NoError(t, stacks.ApplyAll(moves))
	assert.Equal(t, before, stacks.Total())
}

func TestReplay(t *testing.T) {
	stacks := sample()
	steps, err := stacks.Replay(sampleMoves())
	require.NoError(t, err)
	require.Len(t, steps, 4)

	// the input collection is untouched
	if diff := cmp.Diff(sample(), stacks); diff != "" {
		t.Errorf("replay modified its receiver (-want +got):\n%s", diff)
	}

	assert.Equal(t, "ZND", steps[0].After[0].String())
	assert.Equal(t, "MC", steps[0].After[1].String())
	assert.Equal(t, "PDNZ", steps[1].After[2].String())

	// snapshots are independent of each other
	steps[0].After[2].Push('X')
	assert.Equal(t, "PDNZ", steps[1].After[2].String())

	tops, err := steps[len(steps)-1].After.Tops()
	require.NoError(t, err)
	assert.Equal(t, "CMZ", tops)
}

func TestReplayPartial(t *testing.T) {
	moves := append(sampleMoves()[:2], Move{Count: 5, From: 0, To: 1})
	steps, err := sample().Replay(moves)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientItems))
	assert.Len(t, steps, 2)
}

func TestPair(t *testing.T) {
	stacks := Stacks{Stack("A"), Stack("B"), Stack("C")}

	src, dst := pair(stacks, 0, 2)
	assert.Equal(t, "A", src.String())
	assert.Equal(t, "C", dst.String())

	src, dst = pair(stacks, 2, 1)
	assert.Equal(t, "C", src.String())
	assert.Equal(t, "B", dst.String())

	// the views alias the collection
	src.Push('Z')
	assert.Equal(t, "CZ", stacks[2].String())
}

func TestMoveString(t *testing.T) {
	assert.Equal(t, "move 3 from 1 to 9", Move{Count: 3, From: 0, To: 8}.String())
}
