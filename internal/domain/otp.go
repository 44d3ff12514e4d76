package domain

// Purpose tells the notifier which message to send with a one-time code.
type Purpose string

const (
	PurposeUserActivation   Purpose = "user-activation"
	PurposeSellerActivation Purpose = "seller-activation"
	PurposePasswordReset    Purpose = "password-reset"
)

// OTPMessage is handed to the notification collaborator for delivery.
type OTPMessage struct {
	Name        string
	Email       string
	PhoneNumber string
	Code        string
	Purpose     Purpose
}
