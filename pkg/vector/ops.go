package vector

// Add returns a + b as a new Dense vector.
func Add(a, b Vector) (*Dense, error) {
	return zip(a, b, func(x, y float64) float64 { return x + y })
}

// Sub returns a - b as a new Dense vector.
func Sub(a, b Vector) (*Dense, error) {
	return zip(a, b, func(x, y float64) float64 { return x - y })
}

// Scale returns s*v as a new Dense vector.
func Scale(v Vector, s float64) *Dense {
	vals := v.Coords()
	for i := range vals {
		vals[i] *= s
	}
	return &Dense{vals: vals}
}

// Dot returns the inner product of a and b.
func Dot(a, b Vector) (float64, error) {
	if a == nil || b == nil {
		return 0, ErrInvalidArgument
	}
	if a.Dim() != b.Dim() {
		return 0, &DimensionError{Expected: a.Dim(), Actual: b.Dim()}
	}
	av, bv := a.Coords(), b.Coords()
	var sum float64
	for i := range av {
		sum += av[i] * bv[i]
	}
	return sum, nil
}

// Distance returns ||a - b|| under norm n.
func Distance(a, b Vector, n Norm) (float64, error) {
	d, err := Sub(a, b)
	if err != nil {
		return 0, err
	}
	return d.Norm(n)
}

func zip(a, b Vector, f func(x, y float64) float64) (*Dense, error) {
	if a == nil || b == nil {
		return nil, ErrInvalidArgument
	}
	if a.Dim() != b.Dim() {
		return nil, &DimensionError{Expected: a.Dim(), Actual: b.Dim()}
	}
	av, bv := a.Coords(), b.Coords()
	for i := range av {
		av[i] = f(av[i], bv[i])
	}
	return &Dense{vals: av}, nil
}
