package domain

// Reserved portal names used by host editors to mean "nothing selected yet".
const (
	PlaceholderRefresh   = "_refresh_or_no_portals_"
	PlaceholderNoPortals = "_no_portals_found_"
	PlaceholderTypeName  = "_type_portal_name_"
)

// DefaultPlaceholders returns the reserved names a fresh resolver treats as unselected.
func DefaultPlaceholders() []string {
	return []string{PlaceholderRefresh, PlaceholderNoPortals, PlaceholderTypeName}
}

// Host class names of the portal nodes as registered by the editor extension.
const (
	ClassSetPortal = "SetNamedPortal"
	ClassGetPortal = "GetNamedPortal"
)
