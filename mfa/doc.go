// Package mfa validates submitted one-time codes for every second-factor
// method: emailed codes, texted codes and authenticator-app TOTP.
//
// # Validators
//
//   - [EmailCodeValidator]: VERIFY_EMAIL, RESET_PASSWORD_WITH_CODE and
//     VERIFY_CHANGE_HOW_GET_SECURITY_CODES.
//   - [PhoneNumberCodeValidator]: VERIFY_PHONE_NUMBER and MFA_SMS.
//   - [AuthAppCodeValidator]: TOTP against the user's enabled AUTH_APP secret.
//
// A [Factory] maps (method, journey) to a variant and applies the journey's
// retry limit. Registration journeys have a limit of their own.
//
// # Outcomes
//
// ValidateCode returns a *[Rejection] for every user-facing result: wrong
// code, missing code, retry limit, entry block, malformed TOTP input. The
// error return only carries hard failures, chiefly an unreachable store,
// which callers must not paper over with a default decision.
//
// When an incorrect submission pushes the counter past the limit, the
// validator writes the channel's entry block itself and clears the counter,
// so the next submission is rejected as blocked without counting.
package mfa
