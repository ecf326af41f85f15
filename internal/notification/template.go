package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

var movieAvailableTmpl = template.Must(template.New("movie-available").Parse(`<!DOCTYPE html>
<html lang="pt-BR" style="margin:0; padding:0;">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Filme Disponível!</title>
  <style>
    body { background: linear-gradient(135deg, #1f1c2c, #928dab); font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; color: #f5f5f5; margin: 0; padding: 0; }
    .container { max-width: 600px; margin: 40px auto; background: #2c2a48; border-radius: 12px; box-shadow: 0 8px 20px rgba(0,0,0,0.3); padding: 30px 40px; text-align: center; }
    h1 { font-size: 2.4rem; margin-bottom: 10px; color: #ffd700; }
    p { font-size: 1.2rem; line-height: 1.6; margin-bottom: 30px; color: #ddd; }
    .btn { display: inline-block; background: #ffd700; color: #2c2a48; font-weight: bold; padding: 15px 35px; border-radius: 30px; text-decoration: none; font-size: 1.1rem; }
    .footer { margin-top: 40px; font-size: 0.9rem; color: #777; }
  </style>
</head>
<body>
  <div class="container">
    <h1>🎬 O filme "{{.Title}}" que você esperava está aqui!</h1>
    <p>Prepare a pipoca! O filme que você estava aguardando acaba de ficar disponível no nosso site.</p>
    <a href="{{.WatchURL}}" target="_blank" class="btn">Ver filme agora</a>
    <div class="footer">
      <p>Obrigado por usar nosso aviso de lançamentos. Boa sessão!</p>
    </div>
  </div>
</body>
</html>
`))

// RenderMovieAvailable builds the subject and HTML body of the release email.
func RenderMovieAvailable(movieTitle, watchURL string) (subject, html string, err error) {
	var buf bytes.Buffer
	data := struct {
		Title    string
		WatchURL string
	}{movieTitle, watchURL}

	if err := movieAvailableTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render email for %q: %w", movieTitle, err)
	}
	return "🎬 Filme disponível: " + movieTitle, buf.String(), nil
}
