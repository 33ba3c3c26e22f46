package http

import (
	"net/http"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/pkg/bookingsdk"
	"github.com/aussiebroadwan/booking/pkg/httpx"
	"github.com/aussiebroadwan/booking/pkg/idx"
	validation "github.com/go-ozzo/ozzo-validation"
)

// validatable request bodies check their own shape before reaching a
// service. Semantic rules such as password strength live in the services.
type validatable interface {
	Validate() error
}

// decode reads a JSON body and runs its validation. It writes the error
// response itself and reports whether the handler may continue.
func decode(w http.ResponseWriter, r *http.Request, dst validatable) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		badRequest(w, "request body must be a single JSON object with known fields")
		return false
	}
	if err := dst.Validate(); err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}

// pathID parses the named path parameter as an id.
func pathID(w http.ResponseWriter, r *http.Request, name string) (idx.ID, bool) {
	id, err := idx.Parse(r.PathValue(name))
	if err != nil {
		badRequest(w, "invalid "+name)
		return idx.Zero, false
	}
	return id, true
}

// requireUser returns the authenticated caller. Only used on routes behind
// AuthnMiddleware.
func requireUser(r *http.Request) idx.ID {
	id, _ := httpx.UserIDFromContext(r.Context())
	return id
}

type registerRequest bookingsdk.RegisterRequest

func (req *registerRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required),
		validation.Field(&req.Phone, validation.Required),
		validation.Field(&req.FullName, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
}

type loginRequest bookingsdk.LoginRequest

func (req *loginRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
}

type refreshRequest bookingsdk.RefreshRequest

func (req *refreshRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.RefreshToken, validation.Required),
	)
}

type updateProfileRequest bookingsdk.UpdateProfileRequest

func (req *updateProfileRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.FullName, validation.Required),
		validation.Field(&req.Phone, validation.Required),
	)
}

type changePasswordRequest bookingsdk.ChangePasswordRequest

func (req *changePasswordRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CurrentPassword, validation.Required),
		validation.Field(&req.NewPassword, validation.Required),
	)
}

type createGroupRequest bookingsdk.CreateGroupRequest

func (req *createGroupRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required),
	)
}

type joinGroupRequest bookingsdk.JoinGroupRequest

func (req *joinGroupRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Code, validation.Required),
	)
}

type addMemberRequest bookingsdk.AddMemberRequest

func (req *addMemberRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required),
	)
}

type updateMemberStatusRequest bookingsdk.UpdateMemberStatusRequest

func (req *updateMemberStatusRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Status, validation.Required, validation.By(func(v any) error {
			_, err := domain.ParseStatus(v.(string))
			return err
		})),
	)
}

func toTokenResponse(p *domain.TokenPair) bookingsdk.TokenResponse {
	return bookingsdk.TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(p.ExpiresIn.Seconds()),
	}
}

func toUserResponse(u domain.User) bookingsdk.UserResponse {
	return bookingsdk.UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Phone:     u.Phone,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toGroupResponse(g domain.Group) bookingsdk.GroupResponse {
	return bookingsdk.GroupResponse{
		ID:          g.ID.String(),
		Code:        g.Code,
		Name:        g.Name,
		MemberCount: g.MemberCount,
		CreatedAt:   g.CreatedAt,
	}
}

func toGroupResponses(gs []domain.Group) []bookingsdk.GroupResponse {
	out := make([]bookingsdk.GroupResponse, 0, len(gs))
	for _, g := range gs {
		out = append(out, toGroupResponse(g))
	}
	return out
}

func toMembershipResponse(m domain.Membership) bookingsdk.MembershipResponse {
	return bookingsdk.MembershipResponse{
		ID:       m.ID.String(),
		UserID:   m.UserID.String(),
		GroupID:  m.GroupID.String(),
		Status:   string(m.Status),
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

func toMemberViews(vs []domain.MemberView) []bookingsdk.MembershipResponse {
	out := make([]bookingsdk.MembershipResponse, 0, len(vs))
	for _, v := range vs {
		resp := toMembershipResponse(v.Membership)
		resp.UserEmail = v.UserEmail
		resp.UserFullName = v.UserFullName
		resp.GroupName = v.GroupName
		out = append(out, resp)
	}
	return out
}
