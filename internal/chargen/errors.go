package chargen

import (
	"errors"
	"fmt"
)

var (
	// ErrChargeNotFound: referenzierte Charge existiert nicht
	ErrChargeNotFound = errors.New("charge nicht gefunden")

	// ErrZyklischeVerfolgung: Zyklus im Verfolgungsgraphen, Datenbestand ist korrupt.
	// Darf niemals stillschweigend verschluckt werden.
	ErrZyklischeVerfolgung = errors.New("zyklus in der chargenverfolgung")

	// ErrRepositoryUnavailable: transienter Infrastrukturfehler, Retry liegt beim Aufrufer
	ErrRepositoryUnavailable = errors.New("chargen-repository nicht erreichbar")

	// ErrFormatNichtUnterstuetzt: Exportformat außerhalb des festen Wertebereichs
	ErrFormatNichtUnterstuetzt = errors.New("exportformat nicht unterstützt")
)

// AssemblyError: umhüllt den Fehler eines Berichtsabschnitts.
// Ein Bericht wird nie halb befüllt zurückgegeben.
type AssemblyError struct {
	Abschnitt string
	Err       error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("berichtsabschnitt %q fehlgeschlagen: %v", e.Abschnitt, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}
