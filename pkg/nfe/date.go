package nfe

import (
	"fmt"
	"time"
)

const (
	// LayoutBR es el formato de fecha impreso en el DANFE.
	LayoutBR = "02/01/2006"
	// LayoutISO es el formato de fecha que se persiste.
	LayoutISO = "2006-01-02"
)

// BRDateToISO convierte "15/03/2023" en "2023-03-15".
func BRDateToISO(s string) (string, error) {
	t, err := time.Parse(LayoutBR, s)
	if err != nil {
		return "", fmt.Errorf("nfe: fecha inválida %q: %w", s, err)
	}
	return t.Format(LayoutISO), nil
}
