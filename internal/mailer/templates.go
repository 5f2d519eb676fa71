package mailer

import (
	"fmt"
	"html"
)

// ResetPasswordMail builds the subject and HTML body for a password-reset
// message. The link embeds the single-use secret and is valid for 10 minutes.
func ResetPasswordMail(name, link string) (subject, body string) {
	subject = "Restablece tu contraseña"
	body = fmt.Sprintf(`<html><body>
<p>Hola %s,</p>
<p>Recibimos una solicitud para restablecer tu contraseña. El enlace caduca en 10 minutos:</p>
<p><a href="%s">Restablecer contraseña</a></p>
<p>Si no solicitaste este cambio, ignora este mensaje.</p>
</body></html>`, html.EscapeString(name), link)
	return subject, body
}

// VerifyEmailMail builds the subject and HTML body for an email-verification
// message. The link embeds the single-use secret and is valid for 24 hours.
func VerifyEmailMail(name, link string) (subject, body string) {
	subject = "Verifica tu correo electrónico"
	body = fmt.Sprintf(`<html><body>
<p>Hola %s,</p>
<p>Gracias por registrarte. Confirma tu dirección de correo en las próximas 24 horas:</p>
<p><a href="%s">Verificar correo</a></p>
</body></html>`, html.EscapeString(name), link)
	return subject, body
}
