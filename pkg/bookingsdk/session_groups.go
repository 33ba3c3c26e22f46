package bookingsdk

import (
	"context"
	"net/http"
	"net/url"
)

func groupPath(groupID string) string {
	return "/v1/groups/" + url.PathEscape(groupID)
}

// CreateGroup creates a group owned by the session user.
func (s *Session) CreateGroup(ctx context.Context, name string) (*GroupResponse, error) {
	var group GroupResponse
	req := CreateGroupRequest{Name: name}
	if err := s.call(ctx, http.MethodPost, "/v1/groups", req, &group, http.StatusCreated); err != nil {
		return nil, err
	}
	return &group, nil
}

// JoinGroup requests membership with an invite code. The membership
// starts PENDING.
func (s *Session) JoinGroup(ctx context.Context, code string) (*MembershipResponse, error) {
	var m MembershipResponse
	req := JoinGroupRequest{Code: code}
	if err := s.call(ctx, http.MethodPost, "/v1/groups/join", req, &m, http.StatusCreated); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Session) GroupByCode(ctx context.Context, code string) (*GroupResponse, error) {
	var group GroupResponse
	if err := s.call(ctx, http.MethodGet, "/v1/group-codes/"+url.PathEscape(code), nil, &group, http.StatusOK); err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *Session) Group(ctx context.Context, groupID string) (*GroupResponse, error) {
	var group GroupResponse
	if err := s.call(ctx, http.MethodGet, groupPath(groupID), nil, &group, http.StatusOK); err != nil {
		return nil, err
	}
	return &group, nil
}

// MyGroups lists groups where the session user is an accepted member.
func (s *Session) MyGroups(ctx context.Context) ([]GroupResponse, error) {
	var groups []GroupResponse
	if err := s.call(ctx, http.MethodGet, "/v1/groups/mine", nil, &groups, http.StatusOK); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *Session) OwnedGroups(ctx context.Context) ([]GroupResponse, error) {
	var groups []GroupResponse
	if err := s.call(ctx, http.MethodGet, "/v1/groups/owned", nil, &groups, http.StatusOK); err != nil {
		return nil, err
	}
	return groups, nil
}

// Memberships lists every membership of the session user, pending ones
// included.
func (s *Session) Memberships(ctx context.Context) ([]MembershipResponse, error) {
	var ms []MembershipResponse
	if err := s.call(ctx, http.MethodGet, "/v1/groups/memberships", nil, &ms, http.StatusOK); err != nil {
		return nil, err
	}
	return ms, nil
}

func (s *Session) DeleteGroup(ctx context.Context, groupID string) error {
	return s.call(ctx, http.MethodDelete, groupPath(groupID), nil, nil, http.StatusNoContent)
}

func (s *Session) Members(ctx context.Context, groupID string) ([]MembershipResponse, error) {
	var ms []MembershipResponse
	if err := s.call(ctx, http.MethodGet, groupPath(groupID)+"/members", nil, &ms, http.StatusOK); err != nil {
		return nil, err
	}
	return ms, nil
}

// AddMember invites a registered user by email.
func (s *Session) AddMember(ctx context.Context, groupID, email string) (*MembershipResponse, error) {
	var m MembershipResponse
	req := AddMemberRequest{Email: email}
	if err := s.call(ctx, http.MethodPost, groupPath(groupID)+"/members", req, &m, http.StatusCreated); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Session) UpdateMemberStatus(ctx context.Context, groupID, membershipID, status string) (*MembershipResponse, error) {
	var m MembershipResponse
	path := groupPath(groupID) + "/members/" + url.PathEscape(membershipID) + "/status"
	req := UpdateMemberStatusRequest{Status: status}
	if err := s.call(ctx, http.MethodPut, path, req, &m, http.StatusOK); err != nil {
		return nil, err
	}
	return &m, nil
}

// RemoveMember removes userID from the group. Owners may remove anyone;
// members may only remove themselves.
func (s *Session) RemoveMember(ctx context.Context, groupID, userID string) error {
	path := groupPath(groupID) + "/members/" + url.PathEscape(userID)
	return s.call(ctx, http.MethodDelete, path, nil, nil, http.StatusNoContent)
}

// LeaveGroup removes the session user. An owner leaving dissolves the
// group.
func (s *Session) LeaveGroup(ctx context.Context, groupID string) error {
	return s.call(ctx, http.MethodPost, groupPath(groupID)+"/leave", nil, nil, http.StatusNoContent)
}
