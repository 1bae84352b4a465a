package quota

import "fmt"

// Denial messages are ready-to-display Spanish sentences; callers surface them
// in the UI without further formatting.
const (
	msgOrganizationNotFound = "Organización no encontrada."
	msgVerificationFailed   = "No se pudieron verificar los límites de tu plan. Intenta de nuevo."
	msgFeatureNotIncluded   = "Tu plan no incluye esta función. Actualiza tu plan para acceder a ella."
)

// resourceNouns maps each resource to the noun used in denial messages.
var resourceNouns = map[Resource]string{
	ResourceMembers:     "miembros",
	ResourceUsers:       "usuarios del sistema",
	ResourceTrainers:    "entrenadores",
	ResourceLocations:   "sucursales",
	ResourceClasses:     "clases",
	ResourceAPIRequests: "solicitudes de API por día",
	ResourceWhatsApp:    "mensajes de WhatsApp este mes",
	ResourceEmails:      "correos este mes",
	ResourceAIRequests:  "solicitudes de IA este mes",
}

// limitReachedMessage names the ceiling and resource, e.g.
// "Has alcanzado el límite de 10 miembros de tu plan."
func limitReachedMessage(res Resource, limit int64) string {
	noun, ok := resourceNouns[res]
	if !ok {
		noun = string(res)
	}
	return fmt.Sprintf("Has alcanzado el límite de %d %s de tu plan. Actualiza tu plan para continuar.", limit, noun)
}

func storageLimitMessage(limitBytes int64) string {
	return fmt.Sprintf("Has alcanzado el límite de almacenamiento de %d MB de tu plan.", limitBytes/(1<<20))
}

func fileTooLargeMessage(maxSizeMB int64) string {
	return fmt.Sprintf("El archivo supera el tamaño máximo de %d MB permitido por tu plan.", maxSizeMB)
}
