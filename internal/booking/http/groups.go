package http

import (
	"net/http"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/internal/booking/service"
	"github.com/aussiebroadwan/booking/pkg/httpx"
)

// GroupsHandler serves groups and memberships. The caller's identity
// always comes from the verified bearer token.
type GroupsHandler struct {
	Groups *service.GroupService
}

// HandleCreate handles POST /v1/groups
//
//	@Summary		Create group
//	@Description	Creates a group with a fresh six character invite code. The caller becomes its accepted owner.
//	@Tags			Groups
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		bookingsdk.CreateGroupRequest	true	"Group name"
//	@Success		201		{object}	bookingsdk.GroupResponse
//	@Failure		400		{object}	bookingsdk.APIError
//	@Router			/v1/groups [post].
func (h *GroupsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decode(w, r, &req) {
		return
	}
	g, err := h.Groups.CreateGroup(r.Context(), req.Name, requireUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toGroupResponse(g))
}

// HandleJoin handles POST /v1/groups/join
//
//	@Summary		Join by code
//	@Description	Requests membership with an invite code. The membership starts pending.
//	@Tags			Groups
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		bookingsdk.JoinGroupRequest	true	"Invite code"
//	@Success		201		{object}	bookingsdk.MembershipResponse
//	@Failure		404		{object}	bookingsdk.APIError	"group_not_found"
//	@Failure		409		{object}	bookingsdk.APIError	"user_already_in_group"
//	@Router			/v1/groups/join [post].
func (h *GroupsHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinGroupRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.Groups.JoinByCode(r.Context(), req.Code, requireUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toMembershipResponse(m))
}

// HandleGetByCode handles GET /v1/group-codes/{code}
//
//	@Summary	Look up group by code
//	@Tags		Groups
//	@Produce	json
//	@Security	BearerAuth
//	@Param		code	path		string	true	"Invite code"
//	@Success	200		{object}	bookingsdk.GroupResponse
//	@Failure	404		{object}	bookingsdk.APIError	"group_not_found"
//	@Router		/v1/group-codes/{code} [get].
func (h *GroupsHandler) HandleGetByCode(w http.ResponseWriter, r *http.Request) {
	g, err := h.Groups.GetGroupByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toGroupResponse(g))
}

// HandleMine handles GET /v1/groups/mine
//
//	@Summary	Groups I belong to
//	@Tags		Groups
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	bookingsdk.GroupResponse
//	@Router		/v1/groups/mine [get].
func (h *GroupsHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Groups.UserGroups(r.Context(), requireUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toGroupResponses(groups))
}

// HandleOwned handles GET /v1/groups/owned
//
//	@Summary	Groups I own
//	@Tags		Groups
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	bookingsdk.GroupResponse
//	@Router		/v1/groups/owned [get].
func (h *GroupsHandler) HandleOwned(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Groups.OwnedGroups(r.Context(), requireUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toGroupResponses(groups))
}

// HandleMemberships handles GET /v1/groups/memberships
//
//	@Summary	My memberships
//	@Tags		Groups
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	bookingsdk.MembershipResponse
//	@Router		/v1/groups/memberships [get].
func (h *GroupsHandler) HandleMemberships(w http.ResponseWriter, r *http.Request) {
	views, err := h.Groups.Memberships(r.Context(), requireUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMemberViews(views))
}

// HandleGet handles GET /v1/groups/{groupID}
//
//	@Summary	Get group
//	@Tags		Groups
//	@Produce	json
//	@Security	BearerAuth
//	@Param		groupID	path		string	true	"Group id"
//	@Success	200		{object}	bookingsdk.GroupResponse
//	@Failure	403		{object}	bookingsdk.APIError	"unauthorized"
//	@Router		/v1/groups/{groupID} [get].
func (h *GroupsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	g, err := h.Groups.GetGroupByID(r.Context(), groupID, requireUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toGroupResponse(g))
}

// HandleDelete handles DELETE /v1/groups/{groupID}
//
//	@Summary		Delete group
//	@Description	Owner only. Removes the group and every membership.
//	@Tags			Groups
//	@Security		BearerAuth
//	@Param			groupID	path	string	true	"Group id"
//	@Success		204
//	@Failure		403	{object}	bookingsdk.APIError	"unauthorized"
//	@Router			/v1/groups/{groupID} [delete].
func (h *GroupsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	if err := h.Groups.DeleteGroup(r.Context(), groupID, requireUser(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListMembers handles GET /v1/groups/{groupID}/members
//
//	@Summary	List members
//	@Tags		Members
//	@Produce	json
//	@Security	BearerAuth
//	@Param		groupID	path	string	true	"Group id"
//	@Success	200		{array}	bookingsdk.MembershipResponse
//	@Failure	403		{object}	bookingsdk.APIError	"unauthorized"
//	@Router		/v1/groups/{groupID}/members [get].
func (h *GroupsHandler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	views, err := h.Groups.ListMembers(r.Context(), groupID, requireUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMemberViews(views))
}

// HandleAddMember handles POST /v1/groups/{groupID}/members
//
//	@Summary		Invite member
//	@Description	Adds a registered user as a pending member. Any member may invite.
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			groupID	path		string						true	"Group id"
//	@Param			request	body		bookingsdk.AddMemberRequest	true	"Invitee email"
//	@Success		201		{object}	bookingsdk.MembershipResponse
//	@Failure		404		{object}	bookingsdk.APIError	"user_not_found"
//	@Failure		409		{object}	bookingsdk.APIError	"user_already_in_group"
//	@Router			/v1/groups/{groupID}/members [post].
func (h *GroupsHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	var req addMemberRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.Groups.AddMemberByEmail(r.Context(), groupID, req.Email, requireUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toMembershipResponse(m))
}

// HandleUpdateStatus handles PUT /v1/groups/{groupID}/members/{membershipID}/status
//
//	@Summary		Set member status
//	@Description	Owner only. Accepts or demotes a pending membership.
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			groupID			path		string								true	"Group id"
//	@Param			membershipID	path		string								true	"Membership id"
//	@Param			request			body		bookingsdk.UpdateMemberStatusRequest	true	"PENDING or ACCEPTED"
//	@Success		200				{object}	bookingsdk.MembershipResponse
//	@Failure		403				{object}	bookingsdk.APIError	"unauthorized"
//	@Failure		404				{object}	bookingsdk.APIError	"membership_not_found"
//	@Router			/v1/groups/{groupID}/members/{membershipID}/status [put].
func (h *GroupsHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	membershipID, ok := pathID(w, r, "membershipID")
	if !ok {
		return
	}
	var req updateMemberStatusRequest
	if !decode(w, r, &req) {
		return
	}
	status, _ := domain.ParseStatus(req.Status)

	m, err := h.Groups.UpdateMemberStatus(r.Context(), groupID, membershipID, status, requireUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMembershipResponse(m))
}

// HandleRemoveMember handles DELETE /v1/groups/{groupID}/members/{userID}
//
//	@Summary		Remove member
//	@Description	Owners may remove anyone. Members may remove only themselves.
//	@Tags			Members
//	@Security		BearerAuth
//	@Param			groupID	path	string	true	"Group id"
//	@Param			userID	path	string	true	"User id"
//	@Success		204
//	@Failure		403	{object}	bookingsdk.APIError	"unauthorized"
//	@Failure		404	{object}	bookingsdk.APIError	"not_a_member"
//	@Router			/v1/groups/{groupID}/members/{userID} [delete].
func (h *GroupsHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	if err := h.Groups.RemoveMember(r.Context(), groupID, userID, requireUser(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLeave handles POST /v1/groups/{groupID}/leave
//
//	@Summary		Leave group
//	@Description	Removes the caller. An owner leaving dissolves the group.
//	@Tags			Members
//	@Security		BearerAuth
//	@Param			groupID	path	string	true	"Group id"
//	@Success		204
//	@Failure		404	{object}	bookingsdk.APIError	"not_a_member"
//	@Router			/v1/groups/{groupID}/leave [post].
func (h *GroupsHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	if err := h.Groups.LeaveGroup(r.Context(), groupID, requireUser(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
