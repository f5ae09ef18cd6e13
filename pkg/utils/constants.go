package utils

const (
	SessionCreated      = "wizard session created"
	SessionRetrieved    = "wizard session retrieved"
	WebFormRetrieved    = "web form retrieved"
	WebFormUpdated      = "web form updated"
	WebFormSubmitted    = "web form submitted"
	NotificationAdded   = "notification added"
	NotificationRemoved = "notification removed"
	ConfigStored        = "configuration stored"
	ConfigRetrieved     = "configuration retrieved"
)
