package engine

import "github.com/iliyamo/escape-room-reservation/internal/model"

// Guard centralizes the ownership and role predicates that gate every
// mutating engine operation. Keeping the checks in one place avoids
// the classic bug where one entry point remembers the ownership check
// and another forgets it. The predicates are pure; they never touch
// storage.
type Guard struct{}

// IsAdmin reports whether the member holds the ADMIN role.
func (Guard) IsAdmin(m model.Member) bool {
	return m.Role == model.RoleAdmin
}

// Owns reports whether the member is the owner identified by ownerID.
// An unauthenticated member (zero id) owns nothing.
func (Guard) Owns(m model.Member, ownerID uint64) bool {
	return m.ID != 0 && m.ID == ownerID
}

// CanModify reports whether the member may mutate a resource owned by
// ownerID: the owner themselves, or any admin.
func (g Guard) CanModify(m model.Member, ownerID uint64) bool {
	return g.Owns(m, ownerID) || g.IsAdmin(m)
}
