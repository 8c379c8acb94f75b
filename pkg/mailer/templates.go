package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names understood by Render.
const (
	TemplateVerifyEmail   = "verify_email"
	TemplateResetPassword = "reset_password"
)

var verifyEmailTpl = template.Must(template.New(TemplateVerifyEmail).Parse(`
<p>Hi {{.Name}},</p>
<p>Your verification code is <strong>{{.Code}}</strong>. It expires in {{.ExpiresIn}}.</p>
<p>If you did not create this account, you can ignore this email.</p>
`))

var resetPasswordTpl = template.Must(template.New(TemplateResetPassword).Parse(`
<p>Hi {{.Name}},</p>
<p>We received a request to reset your password. Use the link below within {{.ExpiresIn}}:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If you did not request this, you can ignore this email.</p>
`))

// Render produces subject, text, and html bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	var tpl *template.Template
	switch name {
	case TemplateVerifyEmail:
		tpl = verifyEmailTpl
		subject = "Verify your email address"
		text = fmt.Sprintf("Your verification code is %v", data["Code"])
	case TemplateResetPassword:
		tpl = resetPasswordTpl
		subject = "Reset your password"
		text = fmt.Sprintf("Reset your password: %v", data["Link"])
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	return subject, text, buf.String(), nil
}
