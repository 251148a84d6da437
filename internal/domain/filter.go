package domain

// FilterAll disables a filter facet.
const FilterAll = "all"

// FilterSelection holds the two independent list facets.
type FilterSelection struct {
	Venue  string `json:"venue"`
	Status string `json:"status"`
}

// DefaultFilter returns a selection with both facets disabled.
func DefaultFilter() FilterSelection {
	return FilterSelection{Venue: FilterAll, Status: FilterAll}
}

// VenueCode returns the venue facet, or "" when it is disabled.
func (f FilterSelection) VenueCode() string {
	if f.Venue == "" || f.Venue == FilterAll {
		return ""
	}
	return f.Venue
}

// StatusValue returns the status facet, or "" when it is disabled.
func (f FilterSelection) StatusValue() EmploymentStatus {
	if f.Status == "" || f.Status == FilterAll {
		return ""
	}
	return EmploymentStatus(f.Status)
}

// Matches reports whether rec passes both facets.
func (f FilterSelection) Matches(rec StaffRecord) bool {
	if venue := f.VenueCode(); venue != "" {
		if rec.VenueCode == nil || *rec.VenueCode != venue {
			return false
		}
	}
	if status := f.StatusValue(); status != "" && rec.EmploymentStatus != status {
		return false
	}
	return true
}
