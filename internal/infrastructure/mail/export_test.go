package mail

// SetMaxAttachmentSize cambia el límite por adjunto y devuelve la función que lo restaura.
func SetMaxAttachmentSize(n int64) (restore func()) {
	prev := maxAttachmentSize
	maxAttachmentSize = n
	return func() { maxAttachmentSize = prev }
}
