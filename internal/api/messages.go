package api

// Client-facing messages.
const (
	MsgAdminCreated             = "Admin account has been created."
	MsgAdminNotFound            = "Admin not found."
	MsgDuplicateEmail           = "An account with this email address already exists."
	MsgDuplicateIdentity        = "An account with this identity already exists."
	MsgErrorReportOK            = "Error report successfully saved."
	MsgErrorReportNotAllowed    = "You are not allowed to report errors."
	MsgErrorReportNotEnabled    = "Remote error reporting is not enabled."
	MsgErrorReportTokenMissing  = "Missing error reporting token."
	MsgInvalidRequest           = "Invalid request format."
	MsgInvalidValue             = "The value specified for '%s' is invalid."
	MsgMailSentRecoverIdentity  = "If the provided email identifies an account in our system, you will receive an email with your account's identity."
	MsgMailSentResetPassword    = "If the provided email identifies an account in our system, you will receive an email with further instructions on resetting your account's password."
	MsgMailSentUserActivation   = "User activation mail has been successfully sent to '%s'"
	MsgMethodNotAllowed         = "The request method is not supported for the requested resource."
	MsgNotFound                 = "Resource not found."
	MsgResetPasswordExpired     = "Password reset request for hash: '%s' is invalid (expired)."
	MsgResetPasswordNotFound    = "Could not find password reset request identified by hash: '%s'"
	MsgResetPasswordOK          = "Password successfully modified."
	MsgResetPasswordUsed        = "Password reset request for hash: '%s' is invalid (used)."
	MsgResetPasswordValid       = "Password reset request for hash: '%s' is valid."
	MsgRestrictionRoles         = "User accounts must have at least one role."
	MsgRoleNotFound             = "Role not found."
	MsgUnexpected               = "An unexpected error occurred."
	MsgUserActivated            = "This account has been activated."
	MsgUserAlreadyActivated     = "This account is already active."
	MsgUserNotFound             = "User not found."
	MsgValidatorMinLength       = "%s must be at least %s characters long."
	MsgValidatorMaxLength       = "%s must be at most %s characters long."
	MsgValidatorPasswordMatch   = "Password confirmation does not match the provided password."
	MsgValidatorRequiredField   = "This field is required and cannot be empty."
	MsgValidatorRequiredByField = "%s is required and cannot be empty."
)
