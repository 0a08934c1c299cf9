// Package models contains data types and constants for the ChatULL service.
package models

// Endpoints for the ChatULL answer service
const (
	DefaultBaseURL = "https://chatull.onrender.com"

	// PathAnswer answers questions for regular subjects and takes the
	// subject as a query parameter.
	PathAnswer = "get_answer"

	// PathTeacherAnswer answers questions about TeacherSubject only.
	PathTeacherAnswer = "get_teacher_answer"
)

// TeacherSubject is routed to the teacher answer endpoint instead of the
// generic one.
const TeacherSubject = "Reglamentacion y Normativa"

// Routes the client can navigate to
const (
	RouteSetAPIKey = "/set_api_key"
)

// Fixed user-visible strings
const (
	// ErrorAnswer replaces the reply whenever the answer request fails.
	ErrorAnswer = "Error al obtener respuesta"

	// Greeting is stored as the first message of a subject with no history.
	Greeting = "Hola, ¿en qué puedo ayudarte?"

	// Welcome is shown before any subject is picked. It is never stored.
	Welcome = "Hola, soy ChatULL, tu asistente virtual.\n" +
		"Para comenzar, selecciona una asignatura de las mostradas en el menú de la izquierda, " +
		"si no te aparece la asignatura que buscas, puedes darle al botón de crear nuevo chat y buscarla."
)

// DefaultSubjects is the subject menu used when the config has none.
func DefaultSubjects() []string {
	return []string{
		"Algoritmos y Estructuras de Datos",
		"Computabilidad y Algoritmia",
		"Inteligencia Artificial",
		"Sistemas Operativos",
		TeacherSubject,
	}
}

// DefaultHeaders returns the default headers for answer requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":          "application/json",
		"Accept-Language": "es-ES,es;q=0.9,en;q=0.8",
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}
