package domain

import "fmt"

// UserStatus is the lifecycle state of a customer profile.
type UserStatus string

const (
	UserPending     UserStatus = "pending"
	UserApproved    UserStatus = "approved"
	UserDeclined    UserStatus = "declined"
	UserDeactivated UserStatus = "deactivated"
)

func ParseUserStatus(s string) (UserStatus, error) {
	switch UserStatus(s) {
	case UserPending, UserApproved, UserDeclined, UserDeactivated:
		return UserStatus(s), nil
	}
	return "", fmt.Errorf("unknown user status %q", s)
}

func (s UserStatus) Valid() bool {
	_, err := ParseUserStatus(string(s))
	return err == nil
}

func (s UserStatus) String() string { return string(s) }

// KYCStatus is the verification state of a profile or of a single document.
type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
)

func ParseKYCStatus(s string) (KYCStatus, error) {
	switch KYCStatus(s) {
	case KYCPending, KYCApproved, KYCRejected:
		return KYCStatus(s), nil
	}
	return "", fmt.Errorf("unknown kyc status %q", s)
}

func (s KYCStatus) Valid() bool {
	_, err := ParseKYCStatus(string(s))
	return err == nil
}

func (s KYCStatus) String() string { return string(s) }

// TransactionStatus is the review state of a money-movement request.
type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "pending"
	TransactionApproved TransactionStatus = "approved"
	TransactionDeclined TransactionStatus = "declined"
	TransactionDelayed  TransactionStatus = "delayed"
)

func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch TransactionStatus(s) {
	case TransactionPending, TransactionApproved, TransactionDeclined, TransactionDelayed:
		return TransactionStatus(s), nil
	}
	return "", fmt.Errorf("unknown transaction status %q", s)
}

func (s TransactionStatus) Valid() bool {
	_, err := ParseTransactionStatus(string(s))
	return err == nil
}

// Terminal reports whether no further admin decision may change the status.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionApproved || s == TransactionDeclined
}

func (s TransactionStatus) String() string { return string(s) }

// TransactionType distinguishes the three request kinds customers can submit.
type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeTransfer   TransactionType = "transfer"
)

func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TypeDeposit, TypeWithdrawal, TypeTransfer:
		return TransactionType(s), nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

func (t TransactionType) Valid() bool {
	_, err := ParseTransactionType(string(t))
	return err == nil
}

func (t TransactionType) String() string { return string(t) }

// AccountType is the product type of a customer account.
type AccountType string

const (
	AccountChecking AccountType = "checking"
	AccountSavings  AccountType = "savings"
)

func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountChecking, AccountSavings:
		return AccountType(s), nil
	}
	return "", fmt.Errorf("unknown account type %q", s)
}

func (t AccountType) String() string { return string(t) }

// DocumentType classifies an uploaded KYC document.
type DocumentType string

const (
	DocDriversLicense DocumentType = "drivers_license"
	DocPassport       DocumentType = "passport"
	DocUtilityBill    DocumentType = "utility_bill"
	DocBankStatement  DocumentType = "bank_statement"
	DocSelfie         DocumentType = "selfie"
)

func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(s) {
	case DocDriversLicense, DocPassport, DocUtilityBill, DocBankStatement, DocSelfie:
		return DocumentType(s), nil
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

func (t DocumentType) Valid() bool {
	_, err := ParseDocumentType(string(t))
	return err == nil
}

// GovernmentID reports whether an approval or rejection of this document
// drives the profile-level verification status.
func (t DocumentType) GovernmentID() bool {
	return t == DocDriversLicense || t == DocPassport
}

func (t DocumentType) String() string { return string(t) }

var userTransitions = map[UserStatus]map[UserStatus]struct{}{
	UserPending:     {UserApproved: {}, UserDeclined: {}},
	UserApproved:    {UserDeclined: {}, UserDeactivated: {}},
	UserDeclined:    {UserApproved: {}},
	UserDeactivated: {UserApproved: {}},
}

// CanTransitionUser reports whether an admin decision may move a profile
// from one status to another.
func CanTransitionUser(from, to UserStatus) bool {
	allowed, ok := userTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

var transactionTransitions = map[TransactionStatus]map[TransactionStatus]struct{}{
	TransactionPending: {TransactionApproved: {}, TransactionDeclined: {}, TransactionDelayed: {}},
	TransactionDelayed: {TransactionApproved: {}, TransactionDeclined: {}},
}

// CanTransitionTransaction reports whether a transaction may move between
// statuses. Approved and declined are terminal.
func CanTransitionTransaction(from, to TransactionStatus) bool {
	allowed, ok := transactionTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

var kycTransitions = map[KYCStatus]map[KYCStatus]struct{}{
	KYCPending:  {KYCApproved: {}, KYCRejected: {}},
	KYCApproved: {KYCPending: {}},
	KYCRejected: {KYCPending: {}},
}

// CanTransitionKYC reports whether a document may move between statuses.
// Decided documents only leave their state through an explicit reset back
// to pending.
func CanTransitionKYC(from, to KYCStatus) bool {
	allowed, ok := kycTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}
