package entity

// Message correo de la carpeta de CT-e, en el orden del buzón.
type Message struct {
	ID          string
	Subject     string
	Attachments []Attachment
}

// Attachment adjunto con nombre y contenido binario.
type Attachment struct {
	Name    string
	Content []byte
}
