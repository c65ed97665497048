package report

import "github.com/jhoicas/cte-report/internal/domain/entity"

// Collector acumula las filas en orden de llegada.
type Collector struct {
	rows []entity.ReportRow
}

// Add agrega una fila al final.
func (c *Collector) Add(row entity.ReportRow) {
	c.rows = append(c.rows, row)
}

// Rows devuelve las filas acumuladas (nunca nil, para escribir siempre el archivo).
func (c *Collector) Rows() []entity.ReportRow {
	if c.rows == nil {
		return []entity.ReportRow{}
	}
	return c.rows
}

// Len cantidad de filas.
func (c *Collector) Len() int { return len(c.rows) }
