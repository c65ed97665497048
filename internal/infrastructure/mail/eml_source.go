package mail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jhoicas/cte-report/internal/domain"
	"github.com/jhoicas/cte-report/internal/domain/entity"
	"github.com/jhoicas/cte-report/pkg/logger"
)

// EMLDirSource lee archivos .eml de un directorio en orden lexicográfico (corridas sin servidor).
type EMLDirSource struct {
	dir string
	log *logger.Logger
}

// NewEMLDirSource crea la fuente.
func NewEMLDirSource(dir string, log *logger.Logger) *EMLDirSource {
	if log == nil {
		log = logger.Nop()
	}
	return &EMLDirSource{dir: dir, log: log}
}

// Fetch lee todos los .eml. Un directorio inexistente es domain.ErrSourceUnavailable.
func (s *EMLDirSource) Fetch(ctx context.Context) ([]entity.Message, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrSourceUnavailable, s.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".eml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	out := make([]entity.Message, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msg, err := s.readOne(name)
		if err != nil {
			s.log.Warn().Err(err).Str("archivo", name).Msg("correo ilegible, se omite")
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func (s *EMLDirSource) readOne(name string) (entity.Message, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return entity.Message{}, fmt.Errorf("mail: abrir %s: %w", name, err)
	}
	defer f.Close()
	return ParseMessage(name, f)
}

// Close no tiene recursos que liberar.
func (s *EMLDirSource) Close() error { return nil }
