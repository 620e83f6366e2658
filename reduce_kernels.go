package rainbowtab

// reduceScalar reduces one element at a time.
// Preconditions: len(dst) == len(hashes) == len(steps).
func reduceScalar(dst, hashes []uint64, steps []int32, tt uint64) {
	steps = steps[:len(hashes)]
	dst = dst[:len(hashes)]
	for i, h := range hashes {
		dst[i] = (h ^ stepTerm(steps[i]) ^ tt) & Mask40
	}
}

// stepTerms forms the step contribution of one lane group.
func stepTerms(s *[VectorWidth]int32) [VectorWidth]uint64 {
	return [VectorWidth]uint64{stepTerm(s[0]), stepTerm(s[1]), stepTerm(s[2]), stepTerm(s[3])}
}
