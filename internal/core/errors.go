package core

import "errors"

var (
	ErrInvalidParcel     = errors.New("invalid parcel")
	ErrParcelNotFound    = errors.New("parcel not found")
	ErrParcelNotEditable = errors.New("parcel is already paid")
	ErrParcelNotPaid     = errors.New("parcel is not paid")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidID         = errors.New("invalid id")

	ErrUserNotFound  = errors.New("user not found")
	ErrEmailMismatch = errors.New("email does not match the authenticated user")
	ErrInvalidRole   = errors.New("invalid role")

	ErrInvalidPayment      = errors.New("invalid payment request")
	ErrAmountMismatch      = errors.New("amount does not match parcel cost")
	ErrAlreadyPaid         = errors.New("parcel already has a payment")
	ErrPaymentNotConfirmed = errors.New("payment has not been confirmed by the gateway")
	ErrGatewayUnavailable  = errors.New("payment gateway is not configured")
	ErrGateway             = errors.New("payment gateway operation failed")
	ErrWebhookSignature    = errors.New("webhook signature verification failed")

	ErrRiderNotFound      = errors.New("rider application not found")
	ErrRiderExists        = errors.New("applicant already has an open rider application")
	ErrInvalidApplication = errors.New("invalid rider application")
)
