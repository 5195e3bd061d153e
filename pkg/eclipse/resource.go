package eclipse

import "fmt"

// Resource is one of the four stockpiled goods.
type Resource string

const (
	Grain Resource = "grain"
	Stone Resource = "stone"
	Gold  Resource = "gold"
	Relic Resource = "relic"
)

// AllResources returns the resources in display order.
func AllResources() []Resource {
	return []Resource{Grain, Stone, Gold, Relic}
}

// CommonResources are the goods that can be looted or granted as wild income.
func CommonResources() []Resource {
	return []Resource{Grain, Stone, Gold}
}

// ParseResource converts a wire string to a Resource.
func ParseResource(s string) (Resource, error) {
	switch Resource(s) {
	case Grain, Stone, Gold, Relic:
		return Resource(s), nil
	}
	return "", fmt.Errorf("unknown resource %q", s)
}

// Resources is a non-negative stockpile.
type Resources struct {
	Grain int `json:"grain"`
	Stone int `json:"stone"`
	Gold  int `json:"gold"`
	Relic int `json:"relic"`
}

// Get returns the amount held of res.
func (r Resources) Get(res Resource) int {
	switch res {
	case Grain:
		return r.Grain
	case Stone:
		return r.Stone
	case Gold:
		return r.Gold
	case Relic:
		return r.Relic
	}
	return 0
}

func (r *Resources) ptr(res Resource) *int {
	switch res {
	case Grain:
		return &r.Grain
	case Stone:
		return &r.Stone
	case Gold:
		return &r.Gold
	case Relic:
		return &r.Relic
	}
	return nil
}

// Add credits n of res. Negative n is ignored; use Take to debit.
func (r *Resources) Add(res Resource, n int) {
	if p := r.ptr(res); p != nil && n > 0 {
		*p += n
	}
}

// Take debits up to n of res and returns the amount actually removed.
// Stockpiles never go below zero.
func (r *Resources) Take(res Resource, n int) int {
	p := r.ptr(res)
	if p == nil || n <= 0 {
		return 0
	}
	if n > *p {
		n = *p
	}
	*p -= n
	return n
}

// Plus returns the element-wise sum.
func (r Resources) Plus(o Resources) Resources {
	return Resources{
		Grain: r.Grain + o.Grain,
		Stone: r.Stone + o.Stone,
		Gold:  r.Gold + o.Gold,
		Relic: r.Relic + o.Relic,
	}
}

// Total returns the number of units held across all resources.
func (r Resources) Total() int {
	return r.Grain + r.Stone + r.Gold + r.Relic
}
