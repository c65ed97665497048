package cte

// SetMaxXMLSize cambia el límite por entrada del ZIP y devuelve la función que lo restaura.
func SetMaxXMLSize(n int64) (restore func()) {
	prev := maxXMLSize
	maxXMLSize = n
	return func() { maxXMLSize = prev }
}
