package engine

import (
	"testing"

	"github.com/iliyamo/escape-room-reservation/internal/model"
)

func TestGuardCanModify(t *testing.T) {
	var g Guard
	owner := model.Member{ID: 1, Role: model.RoleUser}
	other := model.Member{ID: 2, Role: model.RoleUser}
	root := model.Member{ID: 3, Role: model.RoleAdmin}

	cases := []struct {
		name    string
		actor   model.Member
		ownerID uint64
		want    bool
	}{
		{"owner", owner, 1, true},
		{"other member", other, 1, false},
		{"admin", root, 1, true},
		{"anonymous", model.Member{}, 1, false},
		{"anonymous zero owner", model.Member{}, 0, false},
	}
	for _, tc := range cases {
		if got := g.CanModify(tc.actor, tc.ownerID); got != tc.want {
			t.Errorf("%s: CanModify = %v, want %v", tc.name, got, tc.want)
		}
	}
}
