// filepath: internal/services/auth/policy.go
package auth

import (
	"medialocker/internal/models"
	"medialocker/internal/shared"
)

// Action names an operation the policy engine can rule on.
type Action string

const (
	ActionViewImage       Action = "image.view"
	ActionUploadImage     Action = "image.upload"
	ActionListOwnImages   Action = "image.list_own"
	ActionDownloadImage   Action = "image.download"
	ActionDeleteImage     Action = "image.delete"
	ActionToggleFavourite Action = "image.toggle_favourite"

	ActionListUsers     Action = "admin.list_users"
	ActionChangeRole    Action = "admin.change_role"
	ActionResetPassword Action = "admin.reset_password"
	ActionDeleteAccount Action = "admin.delete_account"
	ActionListAllImages Action = "admin.list_images"
	ActionBatchDelete   Action = "admin.batch_delete"
)

// actions reserved for administrators.
var adminActions = map[Action]bool{
	ActionListUsers:     true,
	ActionChangeRole:    true,
	ActionResetPassword: true,
	ActionDeleteAccount: true,
	ActionListAllImages: true,
	ActionBatchDelete:   true,
}

// ResourceKind discriminates the target of a decision.
type ResourceKind int

const (
	ResourceNone ResourceKind = iota
	ResourceImage
	ResourceAccount
)

// Resource is the target of an action. For images OwnerID carries the
// owning account; for accounts ID is the account itself.
type Resource struct {
	Kind    ResourceKind
	ID      int64
	OwnerID int64
}

// ImageResource builds the policy target for a stored image.
func ImageResource(img *models.Image) Resource {
	return Resource{Kind: ResourceImage, ID: img.ID, OwnerID: img.OwnerID}
}

// AccountResource builds the policy target for a user account.
func AccountResource(id int64) Resource {
	return Resource{Kind: ResourceAccount, ID: id}
}

// NoResource is the target for actions that have no specific object,
// such as uploads and listings.
var NoResource = Resource{Kind: ResourceNone}

// DenyReason explains a negative decision.
type DenyReason string

const (
	DenyUnauthenticated DenyReason = "unauthenticated"
	DenyForbidden       DenyReason = "forbidden"
	DenySelfProtection  DenyReason = "self_protection"
	DenyNotOwner        DenyReason = "not_owner"
)

// Decision is the outcome of a policy evaluation.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

// Deny builds a negative decision with the given reason.
func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Err maps the decision to the shared error taxonomy. Allowed
// decisions map to nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case DenyUnauthenticated:
		return shared.ErrUnauthenticated
	case DenySelfProtection:
		return shared.ErrSelfProtection
	case DenyNotOwner:
		return shared.ErrNotOwner
	default:
		return shared.ErrForbidden
	}
}

// Decide evaluates whether caller may perform action on target. The
// rules apply in a fixed order and the first match wins:
//
//  1. anonymous callers are rejected, except for plain image viewing
//     which is deliberately public;
//  2. admin-reserved actions require the Admin role;
//  3. administrators may not change the role of, or delete, their own
//     account;
//  4. non-admin callers may only touch images they own;
//  5. otherwise the action is allowed.
//
// Decide is stateless and never consults storage; callers resolve the
// target (including its owner) before asking.
func Decide(caller *Claims, action Action, target Resource) Decision {
	if caller == nil {
		if action == ActionViewImage {
			return Allow
		}
		return Deny(DenyUnauthenticated)
	}

	if adminActions[action] && !caller.IsAdmin() {
		return Deny(DenyForbidden)
	}

	if (action == ActionChangeRole || action == ActionDeleteAccount) &&
		target.Kind == ResourceAccount && target.ID == caller.UserID() {
		return Deny(DenySelfProtection)
	}

	if target.Kind == ResourceImage && !caller.IsAdmin() && target.OwnerID != caller.UserID() {
		return Deny(DenyNotOwner)
	}

	return Allow
}
