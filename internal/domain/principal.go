package domain

// ClientKind identifies the OAuth client a token was issued to.
type ClientKind string

// Known client kinds. Only admin and frontend clients can obtain tokens;
// requests without a token act as guest.
const (
	ClientAdmin    ClientKind = "admin"
	ClientFrontend ClientKind = "frontend"
	ClientGuest    ClientKind = "guest"
)

// GuestIdentity is the identity carried by anonymous principals.
const GuestIdentity = "guest"

// Principal is the resolved actor of a single request.
// Exactly one of Admin and User is set for non-guest principals.
type Principal struct {
	Identity   string
	ClientKind ClientKind
	Roles      RoleSet
	Admin      *Admin
	User       *User
}

// NewGuestPrincipal returns an anonymous principal holding the guest role.
func NewGuestPrincipal() *Principal {
	return &Principal{
		Identity:   GuestIdentity,
		ClientKind: ClientGuest,
		Roles:      NewRoleSet(RoleGuest),
	}
}

// IsGuest reports whether the principal has no persisted backing record.
func (p *Principal) IsGuest() bool {
	return p.ClientKind == ClientGuest
}
