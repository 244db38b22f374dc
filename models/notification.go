package models

// Notification kinds. Errors linger longer on screen than the rest.
const (
	NotifySuccess = "success"
	NotifyError   = "error"
	NotifyInfo    = "info"
)

type Notification struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}
