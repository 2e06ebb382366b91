package access

import "testing"

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name  string
		actor *Actor
		want  Filters
	}{
		{
			name:  "admin is unrestricted",
			actor: &Actor{ID: 1, Role: RoleAdmin},
			want:  Filters{},
		},
		{
			name:  "manager is unrestricted",
			actor: &Actor{ID: 2, Role: RoleManager},
			want:  Filters{},
		},
		{
			name:  "partner scoped to its id",
			actor: &Actor{ID: 3, Role: RolePartner, PartnerID: int64ptr(5)},
			want:  Filters{FilterPartnerID: "5"},
		},
		{
			name: "operator scoped to assigned points",
			actor: &Actor{
				ID: 4, Role: RoleOperator,
				OperatorID:              int64ptr(12),
				AssignedServicePointIDs: []int64{7, 9, 11},
			},
			want: Filters{FilterServicePointIDs: "7,9,11"},
		},
		{
			name:  "client scoped to its id",
			actor: &Actor{ID: 5, Role: RoleClient, ClientID: int64ptr(33)},
			want:  Filters{FilterClientID: "33"},
		},
		{
			name:  "anonymous sees nothing",
			actor: nil,
			want:  Filters{FilterServicePointIDs: ""},
		},
		{
			name:  "unknown role sees nothing",
			actor: &Actor{ID: 6, Role: Role("owner")},
			want:  Filters{FilterServicePointIDs: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildFilters(Resolve(tt.actor))
			if len(got) != len(tt.want) {
				t.Fatalf("BuildFilters() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("BuildFilters()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

// A scoped role whose identifying id was never populated must fail closed:
// the filter set has to carry the zero-visibility marker, never the admin's
// unrestricted empty map.
func TestBuildFiltersScopedRoleWithoutID(t *testing.T) {
	actors := []struct {
		name  string
		actor *Actor
	}{
		{"operator without operator id", &Actor{ID: 4, Role: RoleOperator}},
		{"partner without partner id", &Actor{ID: 3, Role: RolePartner}},
		{"client without client id", &Actor{ID: 5, Role: RoleClient}},
	}

	for _, tt := range actors {
		t.Run(tt.name, func(t *testing.T) {
			filters := BuildFilters(Resolve(tt.actor))

			if _, ok := filters[FilterServicePointIDs]; !ok {
				t.Fatalf("BuildFilters() = %v, want zero-visibility marker", filters)
			}
			if !filters.RestrictsToNothing() {
				t.Error("RestrictsToNothing() = false, want true")
			}
		})
	}
}

// An operator with zero assignments must produce a visibly empty filter, not
// an absent one: structurally it differs from the admin's unrestricted empty
// map by carrying the service_point_ids key.
func TestBuildFiltersOperatorWithoutAssignments(t *testing.T) {
	operatorID := int64(12)
	caps := Resolve(&Actor{ID: 4, Role: RoleOperator, OperatorID: &operatorID})

	filters := BuildFilters(caps)

	ids, ok := filters[FilterServicePointIDs]
	if !ok {
		t.Fatal("BuildFilters() omitted service_point_ids for an operator with no assignments")
	}
	if ids != "" {
		t.Errorf("BuildFilters()[service_point_ids] = %q, want empty", ids)
	}
	if !filters.RestrictsToNothing() {
		t.Error("RestrictsToNothing() = false, want true")
	}

	adminFilters := BuildFilters(Resolve(&Actor{ID: 1, Role: RoleAdmin}))
	if adminFilters.RestrictsToNothing() {
		t.Error("admin filters must not restrict to nothing")
	}
	if _, ok := adminFilters[FilterServicePointIDs]; ok {
		t.Error("admin filters must not carry a service_point_ids key")
	}
}

func TestFiltersServicePointIDs(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    []int64
	}{
		{"three ids", Filters{FilterServicePointIDs: "7,9,11"}, []int64{7, 9, 11}},
		{"single id", Filters{FilterServicePointIDs: "7"}, []int64{7}},
		{"empty marker", Filters{FilterServicePointIDs: ""}, nil},
		{"absent key", Filters{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filters.ServicePointIDs()
			if len(got) != len(tt.want) {
				t.Fatalf("ServicePointIDs() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ServicePointIDs()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}
