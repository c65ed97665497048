// Package staging materializa los adjuntos en un directorio temporal que se elimina al final de la corrida.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Area directorio de trabajo exclusivo de una corrida. No es seguro para uso concurrente.
type Area struct {
	dir    string
	used   map[string]int
	closed bool
}

// New crea el área bajo baseDir (vacío = directorio actual).
func New(baseDir string) (*Area, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("staging: directorio actual: %w", err)
		}
		baseDir = wd
	}
	dir, err := os.MkdirTemp(baseDir, "cte-staging-")
	if err != nil {
		return nil, fmt.Errorf("staging: crear directorio en %s: %w", baseDir, err)
	}
	return &Area{dir: dir, used: make(map[string]int)}, nil
}

// Dir ruta del área.
func (a *Area) Dir() string { return a.dir }

// Save escribe el adjunto y devuelve la ruta. Los nombres repetidos reciben sufijo (-2, -3, ...).
func (a *Area) Save(name string, content []byte) (string, error) {
	if a.closed {
		return "", fmt.Errorf("staging: área cerrada")
	}
	fileName := a.uniqueName(sanitize(name))
	p := filepath.Join(a.dir, fileName)
	if err := os.WriteFile(p, content, 0o600); err != nil {
		return "", fmt.Errorf("staging: escribir %s: %w", fileName, err)
	}
	return p, nil
}

// Close elimina el directorio con todo su contenido. Se puede llamar más de una vez.
func (a *Area) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if err := os.RemoveAll(a.dir); err != nil {
		return fmt.Errorf("staging: eliminar %s: %w", a.dir, err)
	}
	return nil
}

func (a *Area) uniqueName(name string) string {
	key := strings.ToLower(name)
	a.used[key]++
	n := a.used[key]
	if n == 1 {
		return name
	}
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + strconv.Itoa(n) + ext
}

// sanitize deja solo el último componente del nombre y reemplaza caracteres problemáticos.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, strings.ContainsRune(`<>:"/\|?*`, r):
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "adjunto"
	}
	return name
}
