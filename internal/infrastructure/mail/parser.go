// Package mail obtiene los correos con CT-e desde un buzón IMAP o desde archivos .eml.
package mail

import (
	"errors"
	"fmt"
	"io"
	"mime"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/charset"
	gomail "github.com/emersion/go-message/mail"

	"github.com/jhoicas/cte-report/internal/domain"
	"github.com/jhoicas/cte-report/internal/domain/entity"
)

// maxAttachmentSize límite por adjunto.
var maxAttachmentSize int64 = 64 << 20

// ParseMessage lee un correo RFC 5322 y devuelve sus adjuntos en orden de aparición.
// Una parte inline con nombre de archivo (típico de Outlook con XML) también cuenta como adjunto.
func ParseMessage(id string, r io.Reader) (entity.Message, error) {
	msg := entity.Message{ID: id}

	mr, err := gomail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return msg, fmt.Errorf("mail: leer mensaje %s: %w", id, err)
	}
	defer mr.Close()

	if subject, err := mr.Header.Subject(); err == nil {
		msg.Subject = subject
	}

	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if message.IsUnknownCharset(err) {
				continue
			}
			return msg, fmt.Errorf("mail: leer parte de %s: %w", id, err)
		}

		name := partFilename(p.Header)
		if name == "" {
			continue
		}
		content, err := io.ReadAll(io.LimitReader(p.Body, maxAttachmentSize+1))
		if err != nil {
			return msg, fmt.Errorf("mail: leer adjunto %s de %s: %w", name, id, err)
		}
		if int64(len(content)) > maxAttachmentSize {
			return msg, fmt.Errorf("mail: adjunto %s de %s: %w (límite %d bytes)",
				name, id, domain.ErrAttachmentTooLarge, maxAttachmentSize)
		}
		msg.Attachments = append(msg.Attachments, entity.Attachment{Name: name, Content: content})
	}
	return msg, nil
}

func partFilename(h gomail.PartHeader) string {
	switch h := h.(type) {
	case *gomail.AttachmentHeader:
		name, err := h.Filename()
		if err == nil && name != "" {
			return name
		}
		return contentTypeName(h.Header)
	case *gomail.InlineHeader:
		if _, params, err := h.ContentDisposition(); err == nil && params["filename"] != "" {
			return decodeWord(params["filename"])
		}
		return contentTypeName(h.Header)
	}
	return ""
}

// contentTypeName nombre en el parámetro name= del Content-Type.
func contentTypeName(h message.Header) string {
	_, params, err := h.ContentType()
	if err != nil {
		return ""
	}
	return decodeWord(params["name"])
}

func decodeWord(s string) string {
	if s == "" {
		return ""
	}
	dec := &mime.WordDecoder{CharsetReader: charset.Reader}
	out, err := dec.DecodeHeader(s)
	if err != nil {
		return s
	}
	return out
}
