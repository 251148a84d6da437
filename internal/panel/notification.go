package panel

import (
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

// NotificationKind is the toast style.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// Notification is a transient message for the user.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Code    string           `json:"code,omitempty"`
}

const signInAgainMessage = "Your session is not linked to a business. Please sign in again."

// NotificationFor turns any error into a user-facing notification.
func NotificationFor(err error) Notification {
	de := apperrors.ToDomainError(err)
	n := Notification{Kind: NotifyError, Title: "Error", Code: de.Code}
	switch de.Code {
	case apperrors.CodeRemote, apperrors.CodeValidation, apperrors.CodeNotFound:
		n.Message = de.Message
	case apperrors.CodeNetwork:
		n.Title = "Connection problem"
		n.Message = apperrors.NetworkErrorMessage
	case apperrors.CodeContextMissing, apperrors.CodeUnauthorized:
		n.Title = "Session"
		n.Message = signInAgainMessage
	default:
		n.Message = "Something went wrong. Please try again."
	}
	return n
}

func success(message string) Notification {
	return Notification{Kind: NotifySuccess, Title: "Success", Message: message}
}
