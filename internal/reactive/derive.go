package reactive

// Derive2 builds a container whose value is combine(a, b), recomputed
// whenever either source emits. Each derived container recomputes
// independently; nothing is memoized across derivations.
func Derive2[A, B, R any](a *Container[A], b *Container[B], combine func(A, B) R) *Container[R] {
	d := New(combine(a.Get(), b.Get()))
	a.Subscribe(func(av A) { d.Set(combine(av, b.Get())) })
	b.Subscribe(func(bv B) { d.Set(combine(a.Get(), bv)) })
	return d
}

// Derive3 is Derive2 over three sources.
func Derive3[A, B, C, R any](a *Container[A], b *Container[B], c *Container[C], combine func(A, B, C) R) *Container[R] {
	d := New(combine(a.Get(), b.Get(), c.Get()))
	a.Subscribe(func(av A) { d.Set(combine(av, b.Get(), c.Get())) })
	b.Subscribe(func(bv B) { d.Set(combine(a.Get(), bv, c.Get())) })
	c.Subscribe(func(cv C) { d.Set(combine(a.Get(), b.Get(), cv)) })
	return d
}
