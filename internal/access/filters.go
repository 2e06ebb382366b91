package access

import (
	"strconv"
	"strings"
)

// Query parameter names emitted by BuildFilters.
const (
	FilterPartnerID       = "partner_id"
	FilterServicePointIDs = "service_point_ids"
	FilterClientID        = "client_id"
)

// Filters is the scoping parameter set a restricted actor's queries must
// carry. An empty map means no restriction (admin/manager). An operator with
// zero assignments gets an explicit empty service_point_ids entry: the key is
// always present for operator scope, so "may see nothing" is distinguishable
// from "unrestricted".
type Filters map[string]string

// BuildFilters derives the scoping filters from a capability set. Only a set
// with the unrestricted view produces the empty map; any other set without a
// usable scoping id (anonymous, unknown role, or a scoped role whose id was
// never populated) gets the zero-visibility marker instead of falling open.
func BuildFilters(caps CapabilitySet) Filters {
	filters := Filters{}

	switch {
	case caps.ViewsEverything():
		// No restriction.
	case caps.PartnerID != nil:
		filters[FilterPartnerID] = strconv.FormatInt(*caps.PartnerID, 10)
	case caps.OperatorID != nil:
		filters[FilterServicePointIDs] = joinIDs(caps.AssignedServicePointIDs)
	case caps.ClientID != nil:
		filters[FilterClientID] = strconv.FormatInt(*caps.ClientID, 10)
	default:
		filters[FilterServicePointIDs] = ""
	}

	return filters
}

// RestrictsToNothing reports whether the filters describe an actor with zero
// visible resources (an operator with no active assignments). Callers must
// short-circuit to an empty result instead of running an unfiltered query.
func (f Filters) RestrictsToNothing() bool {
	ids, ok := f[FilterServicePointIDs]
	return ok && ids == ""
}

// ServicePointIDs parses the service_point_ids entry back into ids. Returns
// nil when the entry is absent or empty.
func (f Filters) ServicePointIDs() []int64 {
	raw, ok := f[FilterServicePointIDs]
	if !ok || raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func joinIDs(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
