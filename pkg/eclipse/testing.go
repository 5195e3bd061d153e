package eclipse

// FixedRand replays scripted values for tests. Ints are clamped into [0,n)
// and an exhausted script yields zero.
type FixedRand struct {
	Ints   []int
	Floats []float64
}

func (f *FixedRand) Intn(n int) int {
	if len(f.Ints) == 0 {
		return 0
	}
	v := f.Ints[0]
	f.Ints = f.Ints[1:]
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

func (f *FixedRand) Float64() float64 {
	if len(f.Floats) == 0 {
		return 0
	}
	v := f.Floats[0]
	f.Floats = f.Floats[1:]
	return v
}
