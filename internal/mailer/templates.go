package mailer

import (
	"html/template"
	texttemplate "text/template"
)

var recoveryTemplate = message{
	subject: "Recuperación de Contraseña",
	text: texttemplate.Must(texttemplate.New("recovery.txt").Parse(
		`Has solicitado restablecer tu contraseña. Abre este enlace para continuar: {{.Link}}`)),
	html: template.Must(template.New("recovery.html").Parse(`<h1>Recuperación de Contraseña</h1>
<p>Has solicitado restablecer tu contraseña. Usa el siguiente enlace:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>Si no lo solicitaste, ignora este correo.</p>
<p>El enlace expira en 1 hora.</p>`)),
}

var welcomeTemplate = message{
	subject: "Bienvenido a nuestra plataforma",
	text: texttemplate.Must(texttemplate.New("welcome.txt").Parse(
		`Hola {{.Name}}, te damos la bienvenida a la plataforma.`)),
	html: template.Must(template.New("welcome.html").Parse(`<h1>¡Bienvenido!</h1>
<p>Hola {{.Name}},</p>
<p>Tu cuenta está lista. Si necesitas ayuda, contáctanos.</p>`)),
}

var passwordChangedTemplate = message{
	subject: "Tu contraseña ha sido cambiada",
	text: texttemplate.Must(texttemplate.New("changed.txt").Parse(
		`Tu contraseña fue cambiada recientemente. Si no fuiste tú, contáctanos de inmediato.`)),
	html: template.Must(template.New("changed.html").Parse(`<h1>Cambio de Contraseña</h1>
<p>Tu contraseña fue cambiada recientemente.</p>
<p>Si no fuiste tú, contáctanos de inmediato.</p>`)),
}
