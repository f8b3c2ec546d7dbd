// Package domain contains the account entities (admins, users, roles and
// password reset requests) with their validation rules and state changes.
// It has no knowledge of persistence or HTTP.
package domain
