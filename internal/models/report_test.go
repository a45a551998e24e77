package models

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestBuildReportCountsSuccessesOnly(t *testing.T) {
	outcomes := []Outcome{
		{Kind: KindSuccess, Origin: "10.0.0.1"},
		{Kind: KindSuccess, Origin: "10.0.0.2"},
		{Kind: KindSuccess, Origin: "10.0.0.1"},
		{Kind: KindTimeout, Detail: "deadline exceeded"},
		{Kind: KindSuccess}, // no origin field in the body
	}

	report := BuildReport(outcomes)
	if report.Total() != 3 {
		t.Fatalf("Total() = %d, want 3", report.Total())
	}
	if report["10.0.0.1"] != 2 || report["10.0.0.2"] != 1 {
		t.Fatalf("unexpected counts: %v", report)
	}
}

func TestReportKeysSorted(t *testing.T) {
	report := Report{"c": 1, "a": 2, "b": 3}
	want := []string{"a", "b", "c"}
	if got := report.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
}

func TestBuildReportOrderIndependent(t *testing.T) {
	outcomes := make([]Outcome, 0, 10)
	origins := []string{"a", "b", "c"}
	for i := 0; i < 10; i++ {
		outcomes = append(outcomes, Outcome{Kind: KindSuccess, Origin: origins[i%len(origins)]})
	}

	base := BuildReport(outcomes)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]Outcome(nil), outcomes...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := BuildReport(shuffled); !reflect.DeepEqual(got, base) {
			t.Fatalf("report differs after shuffle: %v vs %v", got, base)
		}
	}
}
