package audit

import "testing"

func TestBuildBaseQueryNoFilter(t *testing.T) {
	query, args := buildBaseQuery("SELECT COUNT(1)", "c1", Filter{})
	if query != "SELECT COUNT(1) FROM audit_events WHERE company_id = $1" {
		t.Fatalf("query = %q", query)
	}
	if len(args) != 1 || args[0] != "c1" {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildBaseQueryAllFilters(t *testing.T) {
	query, args := buildBaseQuery("SELECT 1", "c1", Filter{
		Action:     "employee.create",
		EntityType: "employee",
		ActorID:    "u1",
	})
	want := "SELECT 1 FROM audit_events WHERE company_id = $1 AND action = $2 AND entity_type = $3 AND actor_user_id = $4"
	if query != want {
		t.Fatalf("query = %q", query)
	}
	if len(args) != 4 {
		t.Fatalf("args = %v", args)
	}
}
