// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"github.com/olegiv/folio/internal/model"
)

// Reasons returned by DeleteDecision.
const (
	DenyNotAdmin  = "Admin access required"
	DenySelf      = "You cannot delete your own account"
	DenyLastAdmin = "Cannot delete the last active admin"
)

// Reasons returned by UpdateDecision.
const (
	DenyDemoteLastAdmin     = "Cannot demote the last active admin"
	DenyDeactivateLastAdmin = "Cannot deactivate the last active admin"
)

// DeleteDecision reports whether actor may delete target and, if not, why.
// activeAdmins is the number of active admin accounts, target included.
func DeleteDecision(actor, target model.User, activeAdmins int) (bool, string) {
	switch {
	case !actor.IsAdmin() || !actor.IsActive:
		return false, DenyNotAdmin
	case actor.ID == target.ID:
		return false, DenySelf
	case target.IsAdmin() && target.IsActive && activeAdmins <= 1:
		return false, DenyLastAdmin
	default:
		return true, ""
	}
}

// CanDelete reports whether actor may delete target.
func CanDelete(actor, target model.User, activeAdmins int) bool {
	ok, _ := DeleteDecision(actor, target, activeAdmins)
	return ok
}

// UpdateDecision reports whether patch may be applied to target and, if not,
// why. A patch must never leave the system without an active admin.
func UpdateDecision(target model.User, patch model.UserPatch, activeAdmins int) (bool, string) {
	if !target.IsAdmin() || !target.IsActive || activeAdmins > 1 {
		return true, ""
	}
	if r, ok := patch.Role.Get(); ok && r != model.RoleAdmin {
		return false, DenyDemoteLastAdmin
	}
	if active, ok := patch.IsActive.Get(); ok && !active {
		return false, DenyDeactivateLastAdmin
	}
	return true, ""
}
