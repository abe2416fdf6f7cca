package sieve

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		value int
		even  bool
		odd   bool
		prime bool
	}{
		{4, true, false, false},
		{7, false, true, true},
		{1, false, true, false},
		{2, true, false, true},
		{0, true, false, false},
		{-3, false, true, false},
		{9, false, true, false},
		{25, false, true, false},
		{49, false, true, false},
		{97, false, true, true},
	}

	for _, tt := range tests {
		item := Classify(tt.value)
		if item.Value != tt.value {
			t.Errorf("Classify(%d): value changed to %d", tt.value, item.Value)
		}
		if item.Is(Even) != tt.even {
			t.Errorf("Classify(%d): expected even=%v", tt.value, tt.even)
		}
		if item.Is(Odd) != tt.odd {
			t.Errorf("Classify(%d): expected odd=%v", tt.value, tt.odd)
		}
		if item.Is(Prime) != tt.prime {
			t.Errorf("Classify(%d): expected prime=%v", tt.value, tt.prime)
		}
	}
}

func TestClassify_ExactlyOneParity(t *testing.T) {
	for n := -50; n <= 50; n++ {
		item := Classify(n)
		if item.Is(Even) == item.Is(Odd) {
			t.Errorf("Classify(%d): expected exactly one of even and odd, got %s", n, item.Categories)
		}
	}
}

func TestIsPrime(t *testing.T) {
	var primes []int
	for n := -5; n <= 50; n++ {
		if IsPrime(n) {
			primes = append(primes, n)
		}
	}

	want := []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47}
	if len(primes) != len(want) {
		t.Fatalf("expected %v, got %v", want, primes)
	}
	for i := range want {
		if primes[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, primes)
		}
	}
}

func TestIsPrime_Large(t *testing.T) {
	if !IsPrime(7919) {
		t.Error("expected 7919 to be prime")
	}
	if IsPrime(7917) {
		t.Error("expected 7917 not to be prime")
	}
	// 89 * 97
	if IsPrime(8633) {
		t.Error("expected 8633 not to be prime")
	}
}

func TestCategory_String(t *testing.T) {
	if s := Even.String(); s != "even" {
		t.Errorf("expected 'even', got %q", s)
	}
	if s := Odd.String(); s != "odd" {
		t.Errorf("expected 'odd', got %q", s)
	}
	if s := Prime.String(); s != "prime" {
		t.Errorf("expected 'prime', got %q", s)
	}
	if s := Category(9).String(); s != "unknown" {
		t.Errorf("expected 'unknown', got %q", s)
	}
}

func TestCategoryFor_RoundRobin(t *testing.T) {
	want := []Category{Even, Odd, Prime, Even, Odd, Prime}
	for i, c := range want {
		if got := CategoryFor(i); got != c {
			t.Errorf("consumer %d: expected %s, got %s", i, c, got)
		}
	}
}

func TestCategories_String(t *testing.T) {
	if s := Classify(2).Categories.String(); s != "even+prime" {
		t.Errorf("expected 'even+prime', got %q", s)
	}
	if s := Classify(9).Categories.String(); s != "odd" {
		t.Errorf("expected 'odd', got %q", s)
	}
	var empty Categories
	if s := empty.String(); s != "" {
		t.Errorf("expected empty string, got %q", s)
	}
}
