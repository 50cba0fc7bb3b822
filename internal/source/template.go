package source

import (
	"fmt"

	"github.com/DeedleFake/pagegen/internal/bufpool"
)

// DefaultTemplate is the page template used when no template file is
// configured.
const DefaultTemplate = `<!DOCTYPE html>
<html lang="en">
	<head>
		<meta charset="utf-8">
		<title>{{title}}</title>
		<meta name="description" content="{{description}}">
		<meta name="keywords" content="{{secondaryKeywordsList}}">
		<link rel="canonical" href="/{{urlPath}}/">
	</head>
	<body>
		<h1>{{title}}</h1>
		<p>{{description}}</p>
		<ul>
{{#features}}			<li>{{.}}</li>
{{/features}}		</ul>
	</body>
</html>
`

// LoadTemplate returns the template body. If path is empty,
// DefaultTemplate is returned, otherwise the file at path is read in
// full.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return DefaultTemplate, nil
	}

	buf, err := readFile(path)
	defer bufpool.Put(buf)
	if err != nil {
		return "", fmt.Errorf("read template %q: %w", path, err)
	}
	return buf.String(), nil
}
