package mail

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"github.com/jhoicas/cte-report/internal/domain"
	"github.com/jhoicas/cte-report/internal/domain/entity"
	"github.com/jhoicas/cte-report/pkg/logger"
)

// IMAPConfig datos de conexión y carpeta (Folder + delimitador del servidor + Subfolder).
// Addr es host:port.
type IMAPConfig struct {
	Addr      string
	Username  string
	Password  string
	TLS       bool
	Folder    string
	Subfolder string
}

// IMAPSource lee los correos de la subcarpeta de CT-e. La conexión se abre en el primer
// Fetch y se libera con Close.
type IMAPSource struct {
	cfg IMAPConfig
	c   *client.Client
	log *logger.Logger
}

// NewIMAPSource crea la fuente sin conectar todavía.
func NewIMAPSource(cfg IMAPConfig, log *logger.Logger) *IMAPSource {
	if log == nil {
		log = logger.Nop()
	}
	return &IMAPSource{cfg: cfg, log: log}
}

// Fetch devuelve los mensajes de la carpeta en orden de secuencia del buzón.
// Cualquier fallo de conexión, login o selección se reporta como domain.ErrSourceUnavailable.
func (s *IMAPSource) Fetch(ctx context.Context) ([]entity.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	mailbox, err := s.mailboxName()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	status, err := s.c.Select(mailbox, true)
	if err != nil {
		return nil, fmt.Errorf("%w: seleccionar %q: %v", domain.ErrSourceUnavailable, mailbox, err)
	}
	s.log.Info().Str("carpeta", mailbox).Uint32("mensajes", status.Messages).Msg("carpeta IMAP seleccionada")
	if status.Messages == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddRange(1, status.Messages)
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, section.FetchItem()}

	fetched := make(chan *imap.Message, 16)
	done := make(chan error, 1)
	go func() {
		done <- s.c.Fetch(seqset, items, fetched)
	}()

	var raw []*imap.Message
	for m := range fetched {
		raw = append(raw, m)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("imap: fetch %s: %w", mailbox, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].SeqNum < raw[j].SeqNum })

	out := make([]entity.Message, 0, len(raw))
	for _, m := range raw {
		id := mailbox + "#" + strconv.FormatUint(uint64(m.Uid), 10)
		body := m.GetBody(section)
		if body == nil {
			s.log.Warn().Str("mensaje", id).Msg("el servidor no devolvió el cuerpo del mensaje")
			continue
		}
		msg, err := ParseMessage(id, body)
		if err != nil {
			s.log.Warn().Err(err).Str("mensaje", id).Msg("mensaje ilegible, se omite")
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

// Close cierra la sesión IMAP si estaba abierta.
func (s *IMAPSource) Close() error {
	if s.c == nil {
		return nil
	}
	err := s.c.Logout()
	s.c = nil
	if err != nil {
		return fmt.Errorf("imap: logout: %w", err)
	}
	return nil
}

func (s *IMAPSource) connect() error {
	if s.c != nil {
		return nil
	}
	addr := s.cfg.Addr
	var (
		c   *client.Client
		err error
	)
	if s.cfg.TLS {
		c, err = client.DialTLS(addr, nil)
	} else {
		c, err = client.Dial(addr)
	}
	if err != nil {
		return fmt.Errorf("imap: conectar %s: %w", addr, err)
	}
	if err := c.Login(s.cfg.Username, s.cfg.Password); err != nil {
		_ = c.Logout()
		return fmt.Errorf("imap: login %s: %w", s.cfg.Username, err)
	}
	s.log.Info().Str("servidor", addr).Msg("conectado al servidor IMAP")
	s.c = c
	return nil
}

// mailboxName arma "<Folder><delim><Subfolder>" con el delimitador que anuncia el servidor.
func (s *IMAPSource) mailboxName() (string, error) {
	if s.cfg.Subfolder == "" {
		return s.cfg.Folder, nil
	}
	boxes := make(chan *imap.MailboxInfo, 8)
	done := make(chan error, 1)
	go func() {
		done <- s.c.List("", s.cfg.Folder, boxes)
	}()
	delim := ""
	for b := range boxes {
		if b.Delimiter != "" {
			delim = b.Delimiter
		}
	}
	if err := <-done; err != nil {
		return "", fmt.Errorf("imap: listar %q: %w", s.cfg.Folder, err)
	}
	return JoinMailbox(s.cfg.Folder, delim, s.cfg.Subfolder), nil
}

// JoinMailbox une carpeta y subcarpeta; sin delimitador anunciado se usa "/".
func JoinMailbox(folder, delim, subfolder string) string {
	if subfolder == "" {
		return folder
	}
	if folder == "" {
		return subfolder
	}
	if delim == "" {
		delim = "/"
	}
	return folder + delim + subfolder
}
