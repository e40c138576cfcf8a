package domain

import (
	"fmt"
	"slices"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleKitchen Role = "kitchen"
	RoleStaff   Role = "staff"
)

const (
	PermViewOrders   = "view_orders"
	PermManageOrders = "manage_orders"
	PermViewMenu     = "view_menu"
	PermManageMenu   = "manage_menu"
	PermViewStaff    = "view_staff"
	PermManageStaff  = "manage_staff"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleKitchen, RoleStaff:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// PermissionsFor derives the permission set for a role. Unknown roles get none.
func PermissionsFor(role Role) []string {
	switch role {
	case RoleAdmin:
		return []string{PermViewOrders, PermManageOrders, PermViewMenu, PermManageMenu, PermViewStaff, PermManageStaff}
	case RoleKitchen:
		return []string{PermViewOrders, PermManageOrders, PermViewMenu, PermManageMenu}
	case RoleStaff:
		return []string{PermViewOrders, PermManageOrders}
	}
	return nil
}

type User struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"fullName"`
	Role        Role       `json:"role"`
	Email       string     `json:"email,omitempty"`
	Permissions []string   `json:"permissions"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
}

func (u User) HasPermission(permission string) bool {
	return slices.Contains(u.Permissions, permission)
}

type UserSummary struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
}

var SupportedLanguages = []Language{
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "es", Name: "Spanish", NativeName: "Español"},
	{Code: "fr", Name: "French", NativeName: "Français"},
	{Code: "de", Name: "German", NativeName: "Deutsch"},
	{Code: "it", Name: "Italian", NativeName: "Italiano"},
	{Code: "pt", Name: "Portuguese", NativeName: "Português"},
	{Code: "zh", Name: "Chinese", NativeName: "中文"},
	{Code: "ja", Name: "Japanese", NativeName: "日本語"},
	{Code: "ar", Name: "Arabic", NativeName: "العربية"},
	{Code: "hi", Name: "Hindi", NativeName: "हिन्दी"},
}

func LookupLanguage(code string) (Language, bool) {
	for _, lang := range SupportedLanguages {
		if lang.Code == code {
			return lang, true
		}
	}
	return Language{}, false
}
