package domain

// Action is something a user may attempt on a group.
type Action string

const (
	ActionView               Action = "view"
	ActionAddMember          Action = "add_member"
	ActionUpdateMemberStatus Action = "update_member_status"
	ActionRemoveMember       Action = "remove_member"
	ActionLeave              Action = "leave"
	ActionDeleteGroup        Action = "delete_group"
)

// MayPerform is the single authorization rule for group operations. m is
// the requester's membership in the target group, or nil when there is
// none.
//
// Owners may do anything. Any member, pending or accepted, may view the
// group, add members and leave. Leaving is always permitted because it
// only ever touches the requester's own row; whether that row exists is
// reported separately. The check looks at the role and never the status,
// so an owner is an owner even while PENDING.
func MayPerform(m *Membership, a Action) bool {
	if a == ActionLeave {
		return true
	}
	if m == nil {
		return false
	}
	if m.IsOwner() {
		return true
	}
	switch a {
	case ActionView, ActionAddMember:
		return true
	default:
		return false
	}
}
