package service

import "errors"

var (
	// ErrValidation wraps request-shape failures so handlers can map them
	// to 422 without enumerating every message.
	ErrValidation = errors.New("validation failed")

	ErrAdminRequired      = errors.New("administrator privileges required")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrRecipientNotFound  = errors.New("recipient account not found")
	ErrSelfTransfer       = errors.New("cannot transfer to your own account")
	ErrUserNotApproved    = errors.New("user is not approved for transactions")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrUserNotFound        = errors.New("user not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDocumentNotFound    = errors.New("document not found")

	ErrDocumentTooLarge    = errors.New("document exceeds the 10 MiB upload limit")
	ErrUnsupportedFileType = errors.New("unsupported document file type")
)
