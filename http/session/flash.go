package session

import (
	"net/http"
)

const (
	// Default Flash Type
	FlashError   = "error"
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"

	// Default Flash Msg
	AlreadyUsedMsg  = "Ese código ya fue utilizado."
	BadCredsMsg     = "Credenciales incorrectas."
	BadInputMsg     = "Revisa el formulario, algo no está bien."
	ConfirmMsg      = "Confirma antes de eliminar."
	DefaultErrMsg   = "¡Uy! Algo salió mal."
	DeletedMsg      = "Eliminado."
	EmailTakenMsg   = "Ya existe una cuenta con ese correo."
	GoneMsg         = "Ese elemento ya no existe."
	InvalidCodeMsg  = "Código de acceso inválido. Revísalo e inténtalo de nuevo."
	NeedCodeMsg     = "Canjea tu código de acceso para ver el curso."
	NoAccessMsg     = "No tienes acceso a esa página."
	RedeemedMsg     = "¡Código aceptado! Ya tienes acceso al curso."
	RetryMsg        = "No pudimos verificar el código. Inténtalo de nuevo."
	SavedMsg        = "Cambios guardados."
	SignInFirstMsg  = "Inicia sesión para continuar."
	SignedOutMsg    = "Cerraste sesión. ¡Hasta pronto!"
	WeakPasswordMsg = "La contraseña debe tener al menos 8 caracteres."
	WelcomeMsg      = "¡Bienvenido!"
	WriteFailedMsg  = "No pudimos guardar los cambios. Inténtalo de nuevo."
)

var (
	CodeGeneratedMsg  = "Código generado: %s"
	CodesGeneratedMsg = "%d códigos generados."
	ContactUsErr      = DefaultErrMsg + " Escríbenos a %s si el problema continúa."
)

type FlashSessionable interface {
	Flashes(w http.ResponseWriter, r *http.Request) []Flash
	SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error
}

type Flash struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}
