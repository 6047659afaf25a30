package http

import (
	"github.com/aussiebroadwan/crmgate/internal/crm/domain"
	"github.com/aussiebroadwan/crmgate/pkg/crmsdk"
)

func toRole(r domain.Role) crmsdk.Role {
	return crmsdk.Role{
		ID:        r.ID,
		Role:      r.Role.Clone(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toRoles(rs []domain.Role) []crmsdk.Role {
	out := make([]crmsdk.Role, len(rs))
	for i, r := range rs {
		out[i] = toRole(r)
	}
	return out
}

func toUser(u domain.User) crmsdk.UserInfo {
	return crmsdk.UserInfo{
		ID:            u.ID,
		Username:      u.Username,
		PreferredName: u.PreferredName,
		RoleID:        u.RoleID,
		MFAEnabled:    u.HasMFA(),
	}
}

func toBusiness(b domain.Business) crmsdk.BusinessInfo {
	return crmsdk.BusinessInfo{ID: b.ID, Name: b.Name}
}

func toTokens(p domain.TokenPair) crmsdk.TokenResponse {
	return crmsdk.TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		ExpiresIn:    p.ExpiresIn,
	}
}
