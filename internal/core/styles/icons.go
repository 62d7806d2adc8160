package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconNotifyInfo    = "" // nf-fa-info_circle
	IconNotifyWarning = "" // nf-fa-warning
	IconNotifyError   = "" // nf-fa-times_circle
	IconAccept        = "" // nf-fa-check
	IconReject        = "" // nf-fa-close
	IconQueue         = "" // nf-fa-list
)
