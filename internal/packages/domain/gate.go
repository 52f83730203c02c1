package domain

// AssertPublishable rejects packages that must never produce an event.
// A nil pkg means the lookup for id found nothing. Only the Cancelled flag is
// consulted; Status is deliberately ignored here.
func AssertPublishable(id int64, pkg *Package) error {
	if pkg == nil {
		return &NotFoundError{ID: id}
	}
	if pkg.Cancelled {
		return &CancelledError{ID: pkg.ID}
	}
	return nil
}
