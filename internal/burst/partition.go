package burst

// Assignment is a racer's contiguous half-open index range over the
// artifact table.
type Assignment struct {
	Start int
	End   int
}

// Len returns the number of artifacts in the assignment.
func (a Assignment) Len() int { return a.End - a.Start }

// AssignmentFor computes racer id's share of n artifacts split across r
// racers. The integer arithmetic guarantees the union of all assignments is
// exactly [0, n) with no gap and no overlap; when n is not divisible by r,
// later partitions absorb the remainder.
func AssignmentFor(id, n, r int) Assignment {
	return Assignment{
		Start: id * n / r,
		End:   (id + 1) * n / r,
	}
}

// Partition returns all r assignments over n artifacts, in racer order.
func Partition(n, r int) []Assignment {
	out := make([]Assignment, r)
	for id := 0; id < r; id++ {
		out[id] = AssignmentFor(id, n, r)
	}
	return out
}
