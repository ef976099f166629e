package schema

import (
	"math"
	"testing"
)

func TestLevelForBoundaries(t *testing.T) {
	cases := []struct {
		xp   int64
		want int
	}{
		{-10, 1},
		{0, 1},
		{49, 1},
		{50, 2},
		{149, 2},
		{150, 3},
		{299, 3},
		{300, 4},
		{500, 5},
		{750, 6},
		{1050, 7},
		{1400, 8},
		{1799, 8},
		{1800, 9},
		{2249, 9},
		{2250, 10},
		{999999, 10},
		{math.MaxInt64, 10},
	}

	for _, tc := range cases {
		if got := LevelFor(tc.xp); got != tc.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestLevelForMonotonicAndBounded(t *testing.T) {
	prev := LevelFor(0)
	for xp := int64(0); xp <= 3000; xp++ {
		got := LevelFor(xp)
		if got < prev {
			t.Fatalf("LevelFor(%d)=%d < LevelFor(%d)=%d", xp, got, xp-1, prev)
		}
		if got < 1 || got > 10 {
			t.Fatalf("LevelFor(%d)=%d out of [1,10]", xp, got)
		}
		prev = got
	}
}

func TestNewLevelTableValidation(t *testing.T) {
	cases := []struct {
		name       string
		thresholds []int64
		wantErr    bool
	}{
		{"empty", nil, true},
		{"not starting at zero", []int64{10, 20}, true},
		{"not ascending", []int64{0, 50, 50}, true},
		{"descending", []int64{0, 100, 50}, true},
		{"single level", []int64{0}, false},
		{"extended", []int64{0, 50, 150, 300, 500, 750, 1050, 1400, 1800, 2250, 2750}, false},
	}

	for _, tc := range cases {
		_, err := NewLevelTable(tc.thresholds)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err=%v, wantErr=%v", tc.name, err, tc.wantErr)
		}
	}
}

func TestLevelTableExtendedAndXPToNext(t *testing.T) {
	table, err := NewLevelTable([]int64{0, 50, 150, 300, 500, 750, 1050, 1400, 1800, 2250, 2750})
	if err != nil {
		t.Fatalf("NewLevelTable error: %v", err)
	}
	if got := table.MaxLevel(); got != 11 {
		t.Fatalf("MaxLevel=%d, want 11", got)
	}
	if got := table.LevelFor(2750); got != 11 {
		t.Fatalf("LevelFor(2750)=%d, want 11", got)
	}
	if got := table.XPToNext(2700); got != 50 {
		t.Fatalf("XPToNext(2700)=%d, want 50", got)
	}
	if got := table.XPToNext(5000); got != 0 {
		t.Fatalf("XPToNext at max level=%d, want 0", got)
	}

	if got := DefaultLevelTable().XPToNext(10); got != 40 {
		t.Fatalf("default XPToNext(10)=%d, want 40", got)
	}
}

func TestLevelTableZeroValueUsesDefault(t *testing.T) {
	var table LevelTable
	if got := table.LevelFor(50); got != 2 {
		t.Fatalf("zero LevelTable LevelFor(50)=%d, want 2", got)
	}
	if got := table.MaxLevel(); got != len(DefaultLevelThresholds) {
		t.Fatalf("zero LevelTable MaxLevel=%d", got)
	}
}

func TestNewLevelTableCopiesInput(t *testing.T) {
	in := []int64{0, 10, 20}
	table, err := NewLevelTable(in)
	if err != nil {
		t.Fatalf("NewLevelTable error: %v", err)
	}
	in[1] = 1000
	if got := table.LevelFor(10); got != 2 {
		t.Fatalf("table mutated through input slice, LevelFor(10)=%d", got)
	}
}
