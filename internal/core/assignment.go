package core

// LatestAssignment returns the authoritative assignment among as: the most
// recently created one that has an employee. Equal CreatedAt values are
// broken by the larger ID so the choice is stable. It returns nil when no
// assignment names an employee.
func LatestAssignment(as []TaskAssignment) *TaskAssignment {
	var latest *TaskAssignment
	for i := range as {
		a := &as[i]
		if a.EmployeeID == nil || *a.EmployeeID == "" {
			continue
		}
		if latest == nil ||
			a.CreatedAt.After(latest.CreatedAt) ||
			(a.CreatedAt.Equal(latest.CreatedAt) && a.ID > latest.ID) {
			latest = a
		}
	}
	return latest
}

// CurrentAssignment resolves the assignment that owns b. The booking's
// CurrentAssignmentID wins when it matches one of as; rows written before
// the pointer existed fall back to LatestAssignment.
func CurrentAssignment(b *Booking, as []TaskAssignment) *TaskAssignment {
	if b.CurrentAssignmentID != nil {
		for i := range as {
			if as[i].ID == *b.CurrentAssignmentID {
				return &as[i]
			}
		}
	}
	var own []TaskAssignment
	for _, a := range as {
		if a.BookingID == b.ID {
			own = append(own, a)
		}
	}
	return LatestAssignment(own)
}
