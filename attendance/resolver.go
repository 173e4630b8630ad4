package attendance

// =============================================================================
// RESOLVER - Daily reported / not-reported classification
// =============================================================================

// DayResolution is the outcome of classifying every known employee against
// one target date.
type DayResolution struct {
	Day            Day
	Reported       []Employee
	NotReported    []Employee
	TotalEmployees int
}

// IsPerfectDay reports whether every known employee reported. An empty
// universe is never perfect.
func (r DayResolution) IsPerfectDay() bool {
	return len(r.NotReported) == 0 && len(r.Reported) > 0
}

// Resolve splits the employee universe into reported and not-reported sets
// for the target date. Membership only: the result is independent of bucket
// iteration order (employees come back in the index's name-sorted universe
// order).
//
// A date with no indexed records at all fails with ErrNoDataForDate - the
// caller must treat "no information" as distinct from "all absent".
func Resolve(ix *Index, target Day) (DayResolution, error) {
	if !ix.HasData(target) {
		return DayResolution{}, &NoDataError{Day: target}
	}

	res := DayResolution{Day: target}
	for _, emp := range ix.Employees() {
		if ix.HasReport(emp.Key(), target) {
			res.Reported = append(res.Reported, emp)
		} else {
			res.NotReported = append(res.NotReported, emp)
		}
	}
	res.TotalEmployees = len(res.Reported) + len(res.NotReported)
	return res, nil
}
