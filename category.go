package sieve

import "strings"

// Category is a classification an integer item can belong to.
type Category uint8

const (
	// Even holds for values divisible by two.
	Even Category = iota
	// Odd holds for values not divisible by two.
	Odd
	// Prime holds for primes. It may co-occur with Even (only for 2) or Odd.
	Prime
)

// AllCategories lists every category in consumer assignment order.
var AllCategories = [...]Category{Even, Odd, Prime}

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case Even:
		return "even"
	case Odd:
		return "odd"
	case Prime:
		return "prime"
	default:
		return "unknown"
	}
}

// CategoryFor returns the category assigned to consumer index i.
// Assignment is round-robin over Even, Odd, Prime.
func CategoryFor(i int) Category {
	return AllCategories[i%len(AllCategories)]
}

// Categories is the membership set of an item.
type Categories uint8

// With returns the set with c added.
func (s Categories) With(c Category) Categories {
	return s | 1<<c
}

// Has reports whether c is in the set.
func (s Categories) Has(c Category) bool {
	return s&(1<<c) != 0
}

// String renders the set as "even+prime".
func (s Categories) String() string {
	parts := make([]string, 0, len(AllCategories))
	for _, c := range AllCategories {
		if s.Has(c) {
			parts = append(parts, c.String())
		}
	}
	return strings.Join(parts, "+")
}

// Item is a classified value. Items are created once by Classify and never
// modified afterwards.
type Item struct {
	Value      int
	Categories Categories
}

// Is reports whether the item belongs to c.
func (i Item) Is(c Category) bool {
	return i.Categories.Has(c)
}

// Classify wraps n with its category membership.
func Classify(n int) Item {
	var set Categories
	if n%2 == 0 {
		set = set.With(Even)
	} else {
		set = set.With(Odd)
	}
	if IsPrime(n) {
		set = set.With(Prime)
	}
	return Item{Value: n, Categories: set}
}

// IsPrime tests n by trial division over the 6k±1 wheel.
// Everything that needs a primality answer goes through here so the
// buffer classification and the statistics always agree.
func IsPrime(n int) bool {
	if n <= 1 {
		return false
	}
	if n <= 3 {
		return true
	}
	if n%2 == 0 || n%3 == 0 {
		return false
	}
	for i := 5; i*i <= n; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}
