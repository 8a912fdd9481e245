package core

import "testing"

func TestDBOrderingString(t *testing.T) {
	tests := []struct {
		name string
		ord  DBOrdering
		want string
	}{
		{"descending by default", DBOrdering{Field: "fecha_registro"}, "fecha_registro DESC"},
		{"ascending", DBOrdering{Field: "created_at", Ascending: true}, "created_at ASC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ord.String(); got != tt.want {
				t.Errorf("DBOrdering.String() = %q; expected %q", got, tt.want)
			}
		})
	}
}
