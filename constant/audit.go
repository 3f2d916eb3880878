package constant

type IdentifierType string

const (
	IdentifierTypeEmail IdentifierType = "email"
	IdentifierTypePhone IdentifierType = "phone"
)

const (
	AuthEventsExchange = "auth_events_exchange"
	LoginAuditQueue    = "login_audit_queue"
	LoginRoutingKey    = "user_login"
)
