package search

import (
	"math"
	"testing"

	"github.com/openlot/lotsearch/internal/domain/search/request"
	"github.com/openlot/lotsearch/internal/domain/search/result"
)

const scoreTolerance = 1e-9

func candidate(id string, rank int, score float64) result.Candidate {
	return result.NewCandidate(id, rank, score)
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < scoreTolerance
}

func TestFuse_BothPaths(t *testing.T) {
	// rank 1 on the vector path, rank 2 on the keyword path, default weights:
	// 0.4/61 + 0.3/62 + 0.3*0.5
	vector := []result.Candidate{candidate("a", 1, 0.92)}
	keyword := []result.Candidate{candidate("b", 1, 3.1), candidate("a", 2, 2.5)}

	fused := fuse(vector, keyword, request.DefaultWeights(), 10)
	if len(fused) != 2 {
		t.Fatalf("expected 2 results, got %d", len(fused))
	}

	want := 0.4/61.0 + 0.3/62.0 + 0.3*0.5
	if got := fused[0].HybridScore(); !approxEqual(got, want) {
		t.Errorf("hybrid score = %.9f, want %.9f", got, want)
	}
	if fused[0].ID() != "a" {
		t.Errorf("expected 'a' first, got %s", fused[0].ID())
	}
	if !approxEqual(fused[0].VectorScore(), 0.92) {
		t.Errorf("vector score = %f, want 0.92", fused[0].VectorScore())
	}
	if !approxEqual(fused[0].KeywordScore(), 2.5) {
		t.Errorf("keyword score = %f, want 2.5", fused[0].KeywordScore())
	}
}

func TestFuse_KeywordOnlyGetsNoBonus(t *testing.T) {
	// The presence bonus tracks vector-list membership. A keyword-only hit
	// at rank 1 scores exactly 0.3/61.
	keyword := []result.Candidate{candidate("b", 1, 3.1)}

	fused := fuse(nil, keyword, request.DefaultWeights(), 10)
	if len(fused) != 1 {
		t.Fatalf("expected 1 result, got %d", len(fused))
	}

	want := 0.3 / 61.0
	if got := fused[0].HybridScore(); !approxEqual(got, want) {
		t.Errorf("hybrid score = %.9f, want %.9f", got, want)
	}
	if fused[0].VectorScore() != 0 {
		t.Errorf("vector score = %f, want 0", fused[0].VectorScore())
	}
}

func TestFuse_VectorOnlyGetsBonus(t *testing.T) {
	vector := []result.Candidate{candidate("c", 1, 0.8)}

	fused := fuse(vector, nil, request.DefaultWeights(), 10)
	if len(fused) != 1 {
		t.Fatalf("expected 1 result, got %d", len(fused))
	}

	want := 0.4/61.0 + 0.15
	if got := fused[0].HybridScore(); !approxEqual(got, want) {
		t.Errorf("hybrid score = %.9f, want %.9f", got, want)
	}
}

func TestFuse_HybridOrdering(t *testing.T) {
	// a: vector rank 1 + keyword rank 2 -> 0.4/61 + 0.3/62 + 0.15 ~ 0.16140
	// b: keyword rank 1 only           -> 0.3/61          ~ 0.00492
	// c: vector rank 2 only            -> 0.4/62 + 0.15   ~ 0.15645
	vector := []result.Candidate{candidate("a", 1, 0.9), candidate("c", 2, 0.7)}
	keyword := []result.Candidate{candidate("b", 1, 4.0), candidate("a", 2, 3.0)}

	fused := fuse(vector, keyword, request.DefaultWeights(), 10)
	if len(fused) != 3 {
		t.Fatalf("expected 3 results, got %d", len(fused))
	}

	wantOrder := []string{"a", "c", "b"}
	for i, want := range wantOrder {
		if fused[i].ID() != want {
			t.Errorf("position %d: got %s, want %s", i, fused[i].ID(), want)
		}
	}

	wantScores := []float64{
		0.4/61.0 + 0.3/62.0 + 0.15,
		0.4/62.0 + 0.15,
		0.3 / 61.0,
	}
	for i, want := range wantScores {
		if got := fused[i].HybridScore(); !approxEqual(got, want) {
			t.Errorf("position %d: score %.9f, want %.9f", i, got, want)
		}
	}
}

func TestFuse_CustomWeights(t *testing.T) {
	weights, err := request.NewWeights(1.0, 0.5, 0, 10)
	if err != nil {
		t.Fatalf("NewWeights: %v", err)
	}

	vector := []result.Candidate{candidate("a", 1, 0.9)}
	keyword := []result.Candidate{candidate("a", 1, 2.0)}

	fused := fuse(vector, keyword, weights, 10)
	want := 1.0/11.0 + 0.5/11.0
	if got := fused[0].HybridScore(); !approxEqual(got, want) {
		t.Errorf("hybrid score = %.9f, want %.9f", got, want)
	}
}

func TestFuse_TieBreakByID(t *testing.T) {
	// Same rank on the same single path produces identical hybrid scores;
	// order must then be id ascending, stable across runs.
	keyword := []result.Candidate{candidate("z9", 1, 2.0), candidate("a1", 1, 2.0)}

	for i := 0; i < 20; i++ {
		fused := fuse(nil, keyword, request.DefaultWeights(), 10)
		if fused[0].ID() != "a1" || fused[1].ID() != "z9" {
			t.Fatalf("iteration %d: order %s,%s, want a1,z9", i, fused[0].ID(), fused[1].ID())
		}
	}
}

func TestFuse_Truncation(t *testing.T) {
	vector := []result.Candidate{
		candidate("a", 1, 0.9),
		candidate("b", 2, 0.8),
		candidate("c", 3, 0.7),
	}

	fused := fuse(vector, nil, request.DefaultWeights(), 2)
	if len(fused) != 2 {
		t.Fatalf("expected 2 results, got %d", len(fused))
	}
	if fused[0].ID() != "a" || fused[1].ID() != "b" {
		t.Errorf("got %s,%s, want a,b", fused[0].ID(), fused[1].ID())
	}
}

func TestFuse_EmptyInputs(t *testing.T) {
	t.Run("both empty", func(t *testing.T) {
		fused := fuse(nil, nil, request.DefaultWeights(), 10)
		if len(fused) != 0 {
			t.Fatalf("expected 0 results, got %d", len(fused))
		}
	})

	t.Run("vector empty", func(t *testing.T) {
		keyword := []result.Candidate{candidate("a", 1, 1.0)}
		fused := fuse(nil, keyword, request.DefaultWeights(), 10)
		if len(fused) != 1 {
			t.Fatalf("expected 1 result, got %d", len(fused))
		}
	})

	t.Run("keyword empty", func(t *testing.T) {
		vector := []result.Candidate{candidate("a", 1, 1.0)}
		fused := fuse(vector, nil, request.DefaultWeights(), 10)
		if len(fused) != 1 {
			t.Fatalf("expected 1 result, got %d", len(fused))
		}
	})
}
