package mail_test

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cte-report/internal/domain"
	"github.com/jhoicas/cte-report/internal/infrastructure/mail"
	"github.com/jhoicas/cte-report/internal/testutil"
)

// buildEML arma un multipart/mixed con un cuerpo de texto y los adjuntos en base64.
func buildEML(subject string, attachments map[string][]byte, order ...string) string {
	var b strings.Builder
	b.WriteString("From: cte@transportadora.com.br\r\n")
	b.WriteString("To: fiscal@empresa.com.br\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/mixed; boundary=\"LIMITE\"\r\n\r\n")
	b.WriteString("--LIMITE\r\nContent-Type: text/plain; charset=utf-8\r\n\r\nSegue CT-e em anexo.\r\n")
	for _, name := range order {
		b.WriteString("--LIMITE\r\n")
		b.WriteString("Content-Type: application/octet-stream\r\n")
		b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", name))
		b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		b.WriteString(base64.StdEncoding.EncodeToString(attachments[name]))
		b.WriteString("\r\n")
	}
	b.WriteString("--LIMITE--\r\n")
	return b.String()
}

func TestParseMessage_AdjuntosEnOrden(t *testing.T) {
	zipBytes := testutil.ZipOf(testutil.Entry{Name: "cte.xml", Content: testutil.MinimalCTeXML})
	raw := buildEML("CT-e 12345", map[string][]byte{
		"12345.xml": []byte(testutil.FullCTeXML),
		"lote.zip":  zipBytes,
	}, "12345.xml", "lote.zip")

	msg, err := mail.ParseMessage("m1", strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, "CT-e 12345", msg.Subject)
	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, "12345.xml", msg.Attachments[0].Name)
	assert.Equal(t, testutil.FullCTeXML, string(msg.Attachments[0].Content))
	assert.Equal(t, "lote.zip", msg.Attachments[1].Name)
	assert.Equal(t, zipBytes, msg.Attachments[1].Content)
}

func TestParseMessage_InlineConNombre(t *testing.T) {
	raw := "Subject: inline\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=\"B\"\r\n\r\n" +
		"--B\r\nContent-Type: text/plain\r\n\r\ncorpo\r\n" +
		"--B\r\nContent-Type: text/xml; name=\"inline.xml\"\r\nContent-Disposition: inline\r\n\r\n<a/>\r\n" +
		"--B--\r\n"

	msg, err := mail.ParseMessage("m2", strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "inline.xml", msg.Attachments[0].Name)
	assert.Equal(t, "<a/>", strings.TrimSpace(string(msg.Attachments[0].Content)))
}

func TestParseMessage_AdjuntoDemasiadoGrande(t *testing.T) {
	defer mail.SetMaxAttachmentSize(8)()
	raw := buildEML("grande", map[string][]byte{
		"chico.xml":  []byte("<a/>"),
		"grande.xml": []byte("<a>" + strings.Repeat("x", 64) + "</a>"),
	}, "chico.xml", "grande.xml")

	_, err := mail.ParseMessage("m4", strings.NewReader(raw))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAttachmentTooLarge)
	assert.Contains(t, err.Error(), "grande.xml")
}

func TestParseMessage_AdjuntoEnElLimite(t *testing.T) {
	defer mail.SetMaxAttachmentSize(4)()
	raw := buildEML("justo", map[string][]byte{"a.xml": []byte("<a/>")}, "a.xml")

	msg, err := mail.ParseMessage("m5", strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "<a/>", string(msg.Attachments[0].Content))
}

func TestParseMessage_SinAdjuntos(t *testing.T) {
	raw := "Subject: hola\r\nContent-Type: text/plain\r\n\r\nsem anexos\r\n"
	msg, err := mail.ParseMessage("m3", strings.NewReader(raw))
	require.NoError(t, err)
	assert.Empty(t, msg.Attachments)
}

func TestJoinMailbox(t *testing.T) {
	assert.Equal(t, "INBOX/XML", mail.JoinMailbox("INBOX", "/", "XML"))
	assert.Equal(t, "INBOX.XML", mail.JoinMailbox("INBOX", ".", "XML"))
	assert.Equal(t, "INBOX/XML", mail.JoinMailbox("INBOX", "", "XML"))
	assert.Equal(t, "INBOX", mail.JoinMailbox("INBOX", "/", ""))
}
