package echoapi

import (
	"testing"

	"github.com/academiadanas/inscripciones/core/adminuser"
)

func TestGetUserClaimsRoleFlags(t *testing.T) {
	tests := []struct {
		rol     string
		isAdmin bool
		canEdit bool
	}{
		{adminuser.RolAdmin, true, true},
		{adminuser.RolEditor, false, true},
		{adminuser.RolViewer, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.rol, func(t *testing.T) {
			claims := GetUserClaims(adminuser.AdminUser{UserID: "u1", Email: "staff@test.mx", Rol: tt.rol})
			if claims.IsAdmin != tt.isAdmin || claims.CanEdit != tt.canEdit {
				t.Errorf("rol %s: IsAdmin=%t CanEdit=%t; expected IsAdmin=%t CanEdit=%t",
					tt.rol, claims.IsAdmin, claims.CanEdit, tt.isAdmin, tt.canEdit)
			}
		})
	}
}
